package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorSuite))
}

func (s *ErrorSuite) TestNew() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	s.Equal(ErrCodeInvalidParameter, err.Code)
	s.Equal("invalid parameter", err.Message)
	s.Nil(err.Cause)
}

func (s *ErrorSuite) TestNewf() {
	err := Newf(ErrCodeInvalidParameter, "invalid parameter: %s", "risk_pct")
	s.Equal("invalid parameter: risk_pct", err.Message)
}

func (s *ErrorSuite) TestWrap() {
	cause := errors.New("duckdb: no rows")
	err := Wrap(ErrCodeDataNotFound, "account lookup failed", cause)
	s.Equal(ErrCodeDataNotFound, err.Code)
	s.Equal(cause, err.Cause)
}

func (s *ErrorSuite) TestWrapf() {
	cause := errors.New("duckdb: no rows")
	err := Wrapf(ErrCodeDataNotFound, cause, "no candle for %s", "BTC")
	s.Equal("no candle for BTC", err.Message)
	s.Equal(cause, err.Cause)
}

func (s *ErrorSuite) TestErrorStringWithoutCause() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	s.Equal("[100] invalid parameter", err.Error())
}

func (s *ErrorSuite) TestErrorStringWithCause() {
	cause := errors.New("no rows")
	err := Wrap(ErrCodeDataNotFound, "account not found", cause)
	s.Equal("[200] account not found: no rows", err.Error())
}

func (s *ErrorSuite) TestUnwrap() {
	cause := errors.New("no rows")
	err := Wrap(ErrCodeDataNotFound, "account not found", cause)
	s.Equal(cause, err.Unwrap())
}

func (s *ErrorSuite) TestUnwrapNilCause() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	s.Nil(err.Unwrap())
}

func (s *ErrorSuite) TestGetCode() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	s.Equal(ErrCodeInvalidParameter, GetCode(err))
}

func (s *ErrorSuite) TestGetCodePrefersOutermostWrap() {
	cause := New(ErrCodeDataNotFound, "account not found")
	err := Wrap(ErrCodeStrategyNotFound, "strategy lookup failed", cause)
	s.Equal(ErrCodeStrategyNotFound, GetCode(err))
}

func (s *ErrorSuite) TestGetCodeFromPlainError() {
	err := errors.New("plain error")
	s.Equal(ErrCodeUnknown, GetCode(err))
}

func (s *ErrorSuite) TestHasCode() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	s.True(HasCode(err, ErrCodeInvalidParameter))
	s.False(HasCode(err, ErrCodeDataNotFound))
}

func (s *ErrorSuite) TestIs() {
	cause := errors.New("no rows")
	err := Wrap(ErrCodeDataNotFound, "account not found", cause)
	s.True(Is(err, cause))
}

func (s *ErrorSuite) TestAs() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")

	var target *Error

	s.True(As(err, &target))
	s.Equal(ErrCodeInvalidParameter, target.Code)
}

func (s *ErrorSuite) TestErrorCodeBands() {
	s.Equal(ErrorCode(1), ErrCodeUnknown)
	s.Equal(ErrorCode(100), ErrCodeInvalidParameter)
	s.Equal(ErrorCode(200), ErrCodeDataNotFound)
	s.Equal(ErrorCode(300), ErrCodeStrategyNotFound)
	s.Equal(ErrorCode(400), ErrCodeOraclePriceUnavailable)
	s.Equal(ErrorCode(500), ErrCodeRiskDailyLossPaused)
	s.Equal(ErrorCode(700), ErrCodeVenueRequestFailed)
}

func (s *ErrorSuite) TestInsufficientDataError() {
	err := NewInsufficientDataErrorf(14, 9, "BTC", "rsi: need %d points, got %d", 14, 9)
	s.Equal("rsi: need 14 points, got 9", err.Error())
	s.True(IsInsufficientDataError(err))
	s.False(IsInsufficientDataError(errors.New("unrelated")))
}
