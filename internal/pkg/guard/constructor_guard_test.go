package guard_test

import (
	"errors"
	"testing"

	"postpurchase/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRejectReturnNotConstructed = errors.New("RejectReturnCommand must be created via NewRejectReturnCommand constructor")

type rejectReturnCommand struct {
	remarks string
	guard   guard.ConstructorGuard
}

func newRejectReturnCommand(remarks string) rejectReturnCommand {
	return rejectReturnCommand{remarks: remarks, guard: guard.NewConstructorGuard()}
}

func (c rejectReturnCommand) Validate() error {
	return c.guard.Validate(errRejectReturnNotConstructed)
}

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed guard passes with or without an error", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errRejectReturnNotConstructed))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero guard returns the supplied error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(errRejectReturnNotConstructed)

		require.ErrorIs(t, err, errRejectReturnNotConstructed)
	})

	t.Run("zero guard falls back to the default error", func(t *testing.T) {
		var g guard.ConstructorGuard

		require.ErrorIs(t, g.Validate(nil), guard.ErrDefaultConstructorGuard)
	})
}

func TestConstructorGuard_Embedded(t *testing.T) {
	t.Run("command built by its constructor is valid", func(t *testing.T) {
		cmd := newRejectReturnCommand("damaged on arrival")

		assert.NoError(t, cmd.Validate())
		assert.Equal(t, "damaged on arrival", cmd.remarks)
	})

	t.Run("struct literal is rejected", func(t *testing.T) {
		cmd := rejectReturnCommand{remarks: "bypassed constructor"}

		assert.Equal(t, errRejectReturnNotConstructed, cmd.Validate())
	})

	t.Run("copies keep the constructed flag", func(t *testing.T) {
		original := newRejectReturnCommand("late")
		commands := []rejectReturnCommand{original, original}

		for _, c := range commands {
			assert.NoError(t, c.Validate())
		}
	})
}
