package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWinstonFromString(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "plain integer", in: "123456789"},
		{name: "zero", in: "0"},
		{name: "huge amount", in: "123456789012345678901234567890"},
		{name: "fractional", in: "1.5", wantErr: true},
		{name: "negative", in: "-1", wantErr: true},
		{name: "garbage", in: "abc", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := WinstonFromString(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidWinston)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.in, w.String())
		})
	}
}

func TestWinston_Arithmetic(t *testing.T) {
	a := NewWinston(300)
	b := NewWinston(100)

	assert.Equal(t, "400", a.Plus(b).String())

	diff, err := a.Minus(b)
	require.NoError(t, err)
	assert.Equal(t, "200", diff.String())

	_, err = b.Minus(a)
	assert.ErrorIs(t, err, ErrNegativeWinston)

	assert.Equal(t, 1, a.Cmp(b))
	assert.Equal(t, -1, b.Cmp(a))
	assert.Equal(t, 0, a.Cmp(NewWinston(300)))
}

func TestWinston_DividedBy_FloorsResult(t *testing.T) {
	q, err := NewWinston(700).DividedBy(NewWinston(200))
	require.NoError(t, err)
	assert.Equal(t, int64(3), q)

	q, err = NewWinston(199).DividedBy(NewWinston(200))
	require.NoError(t, err)
	assert.Equal(t, int64(0), q)

	_, err = NewWinston(1).DividedBy(Winston{})
	assert.ErrorIs(t, err, ErrDivideByZero)
}

func TestWinston_AR(t *testing.T) {
	w, err := WinstonFromString("1500000000000")
	require.NoError(t, err)
	assert.Equal(t, "1.5", w.AR().String())

	assert.Equal(t, "0.000000000001", NewWinston(1).AR().String())
}
