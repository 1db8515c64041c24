package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/drugkit/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// New / Wrap
// ─────────────────────────────────────────────────────────────────────────────

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal", errors.CodeInternal, "unexpected failure"},
		{"parse", errors.CodeMoleculeParsingFailed, "counts line is too short"},
		{"read", errors.CodeFileRead, "cannot open ligands.sdf"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)
			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
		})
	}
}

func TestNewf_FormatsMessage(t *testing.T) {
	ae := errors.Newf(errors.CodeMoleculeParsingFailed, "record %d: %s", 3, "bad atom line")
	assert.Equal(t, "record 3: bad atom line", ae.Message)
}

func TestWrap_NilErrReturnsNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "ignored"))
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	root := stderrors.New("disk full")
	wrapped := errors.Wrap(root, errors.CodeFileWrite, "append failed")

	require.NotNil(t, wrapped)
	assert.True(t, stderrors.Is(wrapped, root))
	assert.Equal(t, root, wrapped.Unwrap())
	assert.Contains(t, wrapped.Error(), "disk full")
}

func TestWrap_UnknownCodeKeepsOriginal(t *testing.T) {
	inner := errors.New(errors.CodeMoleculeParsingFailed, "bad counts line")
	outer := errors.Wrap(inner, errors.CodeUnknown, "load collection")
	assert.Equal(t, errors.CodeMoleculeParsingFailed, outer.Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// Formatting and builders
// ─────────────────────────────────────────────────────────────────────────────

func TestAppError_ErrorFormat(t *testing.T) {
	ae := errors.New(errors.CodeFileRead, "cannot open").WithDetail("path=a.sdf")
	assert.Equal(t, "[IO_001] cannot open: path=a.sdf", ae.Error())

	plain := errors.New(errors.CodeInternal, "boom")
	assert.Equal(t, "[COMMON_001] boom", plain.Error())
}

func TestWithDetail_DoesNotMutateReceiver(t *testing.T) {
	base := errors.InvalidParam("no input files")
	derived := base.WithDetail("args=0")

	assert.Empty(t, base.Detail)
	assert.Equal(t, "args=0", derived.Detail)

	var nilErr *errors.AppError
	assert.Nil(t, nilErr.WithDetail("x"))
	assert.Nil(t, nilErr.WithCause(fmt.Errorf("x")))
}

// ─────────────────────────────────────────────────────────────────────────────
// Chain inspection
// ─────────────────────────────────────────────────────────────────────────────

func TestIsCode_FindsCodeThroughFmtWrapping(t *testing.T) {
	ae := errors.New(errors.CodeFileWrite, "append failed")
	wrapped := fmt.Errorf("emit: %w", ae)

	assert.True(t, errors.IsCode(wrapped, errors.CodeFileWrite))
	assert.False(t, errors.IsCode(wrapped, errors.CodeFileRead))
	assert.False(t, errors.IsCode(nil, errors.CodeFileWrite))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.CodeInternal, errors.GetCode(errors.Internal("x")))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "MOL", errors.ModuleForCode(errors.ErrCodeMoleculeParsingFailed))
	assert.Equal(t, "IO", errors.ModuleForCode(errors.ErrCodeFileWrite))
	assert.Equal(t, "UNKNOWN", errors.ModuleForCode(errors.CodeOK))
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "failed to parse molecule", errors.DefaultMessageForCode(errors.ErrCodeMoleculeParsingFailed))
	assert.Equal(t, "unknown error", errors.DefaultMessageForCode(errors.ErrorCode("NOPE_1")))
}

//Personal.AI order the ending
