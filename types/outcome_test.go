package types //nolint:revive // types is a valid package name

import (
	"errors"
	"strconv"
	"testing"
)

var errBoom = errors.New("boom")

func TestOutcome_Success(t *testing.T) {
	o := Success[int, error](42)

	if !o.IsSuccess() {
		t.Fatal("expected success")
	}
	v, ok := o.Value()
	if !ok || v != 42 {
		t.Errorf("Value() = (%d, %v), want (42, true)", v, ok)
	}
	if _, isErr := o.Err(); isErr {
		t.Error("Err() reported failure on success outcome")
	}
	if got := o.UnwrapOr(7); got != 42 {
		t.Errorf("UnwrapOr = %d, want 42", got)
	}
}

func TestOutcome_Failure(t *testing.T) {
	o := Failure[int](errBoom)

	if o.IsSuccess() {
		t.Fatal("expected failure")
	}
	if _, ok := o.Value(); ok {
		t.Error("Value() reported success on failure outcome")
	}
	err, isErr := o.Err()
	if !isErr || !errors.Is(err, errBoom) {
		t.Errorf("Err() = (%v, %v), want (boom, true)", err, isErr)
	}
	if got := o.UnwrapOr(7); got != 7 {
		t.Errorf("UnwrapOr = %d, want 7", got)
	}
}

func TestMap(t *testing.T) {
	t.Run("transforms success", func(t *testing.T) {
		o := Map(Success[int, error](5), strconv.Itoa)
		if v, ok := o.Value(); !ok || v != "5" {
			t.Errorf("Map = (%q, %v), want (\"5\", true)", v, ok)
		}
	})

	t.Run("passes failure through", func(t *testing.T) {
		called := false
		o := Map(Failure[int](errBoom), func(int) string {
			called = true
			return ""
		})
		if called {
			t.Error("map function called on failure")
		}
		if err, isErr := o.Err(); !isErr || !errors.Is(err, errBoom) {
			t.Errorf("expected original error, got %v", err)
		}
	})
}

func TestMapError(t *testing.T) {
	wrap := func(err error) string { return "wrapped: " + err.Error() }

	t.Run("transforms failure", func(t *testing.T) {
		o := MapError(Failure[int](errBoom), wrap)
		if err, isErr := o.Err(); !isErr || err != "wrapped: boom" {
			t.Errorf("MapError = (%q, %v)", err, isErr)
		}
	})

	t.Run("passes success through", func(t *testing.T) {
		o := MapError(Success[int, error](3), wrap)
		if v, ok := o.Value(); !ok || v != 3 {
			t.Errorf("MapError success = (%d, %v), want (3, true)", v, ok)
		}
	})
}

func TestFlatMap(t *testing.T) {
	half := func(n int) Outcome[int, error] {
		if n%2 != 0 {
			return Failure[int](errors.New("odd"))
		}
		return Success[int, error](n / 2)
	}

	tests := []struct {
		name    string
		in      Outcome[int, error]
		want    int
		wantErr string
	}{
		{name: "success chains", in: Success[int, error](8), want: 4},
		{name: "inner failure", in: Success[int, error](3), wantErr: "odd"},
		{name: "outer failure short-circuits", in: Failure[int](errBoom), wantErr: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := FlatMap(tt.in, half)
			if tt.wantErr != "" {
				err, isErr := o.Err()
				if !isErr || err.Error() != tt.wantErr {
					t.Errorf("expected error %q, got %v", tt.wantErr, err)
				}
				return
			}
			if v, ok := o.Value(); !ok || v != tt.want {
				t.Errorf("FlatMap = (%d, %v), want (%d, true)", v, ok, tt.want)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	describe := func(o Outcome[int, error]) string {
		return Match(o,
			func(v int) string { return "ok:" + strconv.Itoa(v) },
			func(err error) string { return "err:" + err.Error() },
		)
	}

	if got := describe(Success[int, error](1)); got != "ok:1" {
		t.Errorf("Match success = %q", got)
	}
	if got := describe(Failure[int](errBoom)); got != "err:boom" {
		t.Errorf("Match failure = %q", got)
	}
}

func TestOutcome_ZeroValueIsFailure(t *testing.T) {
	var o Outcome[string, error]
	if o.IsSuccess() {
		t.Error("zero Outcome must not report success")
	}
}
