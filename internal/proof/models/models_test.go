package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_DefaultsProgram(t *testing.T) {
	req := ProofRequest{Function: " prove_access ", AppID: " app1 "}
	req.Normalize()

	assert.Equal(t, DefaultProgram, req.Program)
	assert.Equal(t, FunctionProveAccess, req.Function)
	assert.Equal(t, "app1", req.AppID)
}

func TestValidate_AcceptsWellFormedRequest(t *testing.T) {
	req := ProofRequest{Program: DefaultProgram, Function: FunctionProveAccess, AppID: "app1", MinScore: 50}
	assert.NoError(t, req.Validate())
}

func TestValidate_RejectsOtherFunctions(t *testing.T) {
	req := ProofRequest{Program: DefaultProgram, Function: "drain_wallet", AppID: "app1", MinScore: 50}
	require.Error(t, req.Validate())
}

func TestValidate_RejectsMissingAppID(t *testing.T) {
	req := ProofRequest{Program: DefaultProgram, Function: FunctionProveAccess, MinScore: 50}
	require.Error(t, req.Validate())
}

func TestValidate_RejectsOutOfRangeMinScore(t *testing.T) {
	req := ProofRequest{Program: DefaultProgram, Function: FunctionProveAccess, AppID: "app1"}

	req.MinScore = 0
	require.Error(t, req.Validate())

	req.MinScore = 101
	require.Error(t, req.Validate())

	req.MinScore = 100
	assert.NoError(t, req.Validate())
}
