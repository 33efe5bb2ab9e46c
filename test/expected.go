// This file is part of Thumbasm.
//
// Thumbasm is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Thumbasm is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Thumbasm.  If not, see <https://www.gnu.org/licenses/>.

// Package test collects the small assertion helpers used throughout this
// module's test files - a stand-in for a full matcher library, kept
// dependency-free since the errors package's own tests import this one
// (pulling in a third-party assertion library here would risk the reverse
// import eventually happening too).
package test

import (
	"reflect"
	"testing"
)

// Equate fails the test unless got and want are deeply equal.
func Equate(t *testing.T, got, want interface{}) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("values are not equal\ngot:  %#v\nwant: %#v", got, want)
	}
}

// ExpectEquality is an alias of Equate.
func ExpectEquality(t *testing.T, got, want interface{}) {
	t.Helper()
	Equate(t, got, want)
}

// ExpectInequality fails the test if got and want are deeply equal.
func ExpectInequality(t *testing.T, got, want interface{}) {
	t.Helper()
	if reflect.DeepEqual(got, want) {
		t.Errorf("values are unexpectedly equal: %#v", got)
	}
}

// ExpectApproximate fails the test unless got is within a fraction of want
// given by precision: 0.1 allows got to differ from want by 10% of want.
func ExpectApproximate(t *testing.T, got, want, precision float64) {
	t.Helper()
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	tolerance := want * precision
	if tolerance < 0 {
		tolerance = -tolerance
	}
	if diff > tolerance {
		t.Errorf("values are not within %v of each other: got %v, want %v", precision, got, want)
	}
}

// isSuccess interprets v the way ExpectedSuccess/ExpectedFailure do: a nil
// value (including a nil error) or a true bool is success; anything else -
// a non-nil error, a false bool, any other non-nil value - is failure.
func isSuccess(v interface{}) bool {
	if v == nil {
		return true
	}
	switch x := v.(type) {
	case bool:
		return x
	case error:
		return x == nil
	default:
		return false
	}
}

// ExpectedSuccess fails the test if v represents a failure (a non-nil
// error or false).
func ExpectedSuccess(t *testing.T, v interface{}) {
	t.Helper()
	if !isSuccess(v) {
		t.Errorf("expected success but got failure: %v", v)
	}
}

// ExpectedFailure fails the test if v represents a success (a nil error,
// nil, or true).
func ExpectedFailure(t *testing.T, v interface{}) {
	t.Helper()
	if isSuccess(v) {
		t.Errorf("expected failure but got success: %v", v)
	}
}

// ExpectSuccess is an alias of ExpectedSuccess.
func ExpectSuccess(t *testing.T, v interface{}) {
	t.Helper()
	ExpectedSuccess(t, v)
}

// ExpectFailure is an alias of ExpectedFailure.
func ExpectFailure(t *testing.T, v interface{}) {
	t.Helper()
	ExpectedFailure(t, v)
}
