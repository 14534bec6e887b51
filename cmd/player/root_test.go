package main

import (
	"bytes"
	"context"
	"exchange-lab/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(args ...string) (string, []domain.Role, error) {
	var out bytes.Buffer
	var played []domain.Role
	cmd := newRootCmd(&out, func(_ context.Context, role domain.Role) error {
		played = append(played, role)
		return nil
	})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), played, err
}

func TestRootCmd_MissingRolePrintsUsage(t *testing.T) {
	req := require.New(t)

	out, played, err := execute()

	req.NoError(err)
	req.Empty(played)
	req.Contains(out, "Usage:")
}

func TestRootCmd_InvalidRolePrintsUsage(t *testing.T) {
	req := require.New(t)

	out, played, err := execute("observer")

	req.NoError(err)
	req.Empty(played)
	req.Contains(out, "unknown role")
	req.Contains(out, "Usage:")
}

func TestRootCmd_TooManyArguments(t *testing.T) {
	req := require.New(t)

	out, played, err := execute("initiator", "receiver")

	req.NoError(err)
	req.Empty(played)
	req.Contains(out, "Usage:")
}

func TestRootCmd_PlaysRole(t *testing.T) {
	req := require.New(t)

	_, played, err := execute("Receiver")
	req.NoError(err)
	req.Equal([]domain.Role{domain.Receiver}, played)

	_, played, err = execute("initiator")
	req.NoError(err)
	req.Equal([]domain.Role{domain.Initiator}, played)
}
