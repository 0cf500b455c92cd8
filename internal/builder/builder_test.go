package builder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgs_Merge(t *testing.T) {
	base := Args{"app_name": "shop", "database": "postgresql"}
	merged := base.Merge(Args{"database": "mysql", "template": "x.erb"})

	assert.Equal(t, "mysql", merged.Get("database"))
	assert.Equal(t, "shop", merged.Get("app_name"))
	assert.Equal(t, "postgresql", base.Get("database"), "merge must not modify the receiver")
	assert.Equal(t, []string{"app_name", "database", "template"}, merged.Keys())
}

func TestFunc(t *testing.T) {
	var got string
	b := Func(func(_ context.Context, step string, _ Args) error {
		got = step
		return nil
	})
	require.NoError(t, b.Run(context.Background(), "init_git", nil))
	assert.Equal(t, "init_git", got)
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := &Error{Step: "setup_spring", Op: "command", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "setup_spring: command: disk full", err.Error())
	assert.Equal(t, "setup_spring: disk full", (&Error{Step: "setup_spring", Err: cause}).Error())
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	boom := errors.New("boom")
	r.FailOn("init_git", boom)

	ctx := context.Background()
	require.NoError(t, r.Run(ctx, "replace_gemfile", Args{"app_name": "shop"}))
	err := r.Run(ctx, "init_git", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"replace_gemfile", "init_git"}, r.Steps())
	assert.Equal(t, "shop", r.Calls()[0].Args.Get("app_name"))
}
