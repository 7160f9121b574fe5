package accounts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fld/internal/structures"
)

func newTestRegistry(t *testing.T) RegistryInterface {
	dir := t.TempDir()
	conf := &structures.Config{}
	conf.Accounts.TrackedFile = filepath.Join(dir, "accounts.json")
	conf.Accounts.PendingFile = filepath.Join(dir, "pending_accounts.json")

	r, err := NewRegistry(conf)
	require.NoError(t, err)
	return r
}

func TestNewRegistryCreatesFiles(t *testing.T) {
	dir := t.TempDir()
	conf := &structures.Config{}
	conf.Accounts.TrackedFile = filepath.Join(dir, "accounts.json")
	conf.Accounts.PendingFile = filepath.Join(dir, "pending_accounts.json")

	_, err := NewRegistry(conf)
	require.NoError(t, err)

	_, err = os.Stat(conf.Accounts.TrackedFile)
	assert.NoError(t, err)
	_, err = os.Stat(conf.Accounts.PendingFile)
	assert.NoError(t, err)
}

func TestSubmitAddsPending(t *testing.T) {
	r := newTestRegistry(t)

	ok, msg := r.Submit("@NewUser", "tester")
	require.True(t, ok)
	assert.Equal(t, "Account @newuser has been submitted for review", msg)

	pending := r.ListPending()
	require.Len(t, pending, 1)
	assert.Equal(t, "newuser", pending[0].Username)
	assert.Equal(t, "tester", pending[0].Submitter)
	assert.False(t, pending[0].SubmittedAt.IsZero())
}

func TestSubmitDefaultsSubmitter(t *testing.T) {
	r := newTestRegistry(t)

	ok, _ := r.Submit("someone", "")
	require.True(t, ok)
	assert.Equal(t, "Anonymous", r.ListPending()[0].Submitter)
}

func TestSubmitRejectsShortUsername(t *testing.T) {
	r := newTestRegistry(t)

	ok, msg := r.Submit("ab", "tester")
	assert.False(t, ok)
	assert.Equal(t, "Invalid username format", msg)
	assert.Empty(t, r.ListPending())
}

func TestSubmitDuplicatePending(t *testing.T) {
	r := newTestRegistry(t)

	ok, _ := r.Submit("someuser", "")
	require.True(t, ok)

	// case-insensitive duplicate
	ok, msg := r.Submit("@SomeUser", "")
	assert.False(t, ok)
	assert.Equal(t, "Account @someuser is already pending approval", msg)
	assert.Len(t, r.ListPending(), 1)
}

func TestSubmitDuplicateTracked(t *testing.T) {
	r := newTestRegistry(t)

	_, _ = r.Submit("someuser", "")
	ok, _ := r.Approve("someuser")
	require.True(t, ok)

	ok, msg := r.Submit("SOMEUSER", "")
	assert.False(t, ok)
	assert.Equal(t, "Account @someuser is already being tracked", msg)
}

func TestApproveMovesToTracked(t *testing.T) {
	r := newTestRegistry(t)

	_, _ = r.Submit("someuser", "tester")
	ok, msg := r.Approve("@SomeUser")
	require.True(t, ok)
	assert.Equal(t, "Account @someuser has been approved", msg)

	assert.Empty(t, r.ListPending())
	tracked := r.ListTracked()
	require.Len(t, tracked, 1)
	assert.Equal(t, "someuser", tracked[0].Username)
	assert.Equal(t, "tester", tracked[0].Submitter)
	assert.False(t, tracked[0].ApprovedAt.IsZero())
}

func TestApproveUnknown(t *testing.T) {
	r := newTestRegistry(t)

	ok, msg := r.Approve("ghost")
	assert.False(t, ok)
	assert.Equal(t, "Account @ghost is not in the pending list", msg)
}

func TestRejectDropsPending(t *testing.T) {
	r := newTestRegistry(t)

	_, _ = r.Submit("someuser", "")
	ok, msg := r.Reject("someuser")
	require.True(t, ok)
	assert.Equal(t, "Account @someuser has been rejected", msg)
	assert.Empty(t, r.ListPending())
	assert.Empty(t, r.ListTracked())
}

func TestRejectUnknown(t *testing.T) {
	r := newTestRegistry(t)

	ok, msg := r.Reject("ghost")
	assert.False(t, ok)
	assert.Equal(t, "Account @ghost is not in the pending list", msg)
}

func TestRemoveTracked(t *testing.T) {
	r := newTestRegistry(t)

	_, _ = r.Submit("someuser", "")
	_, _ = r.Approve("someuser")

	ok, msg := r.Remove("someuser")
	require.True(t, ok)
	assert.Equal(t, "Account @someuser has been removed from tracking", msg)
	assert.Empty(t, r.ListTracked())

	// removed accounts can be submitted again
	ok, _ = r.Submit("someuser", "")
	assert.True(t, ok)
}

func TestRemoveUnknown(t *testing.T) {
	r := newTestRegistry(t)

	ok, msg := r.Remove("ghost")
	assert.False(t, ok)
	assert.Equal(t, "Account @ghost is not in the tracked accounts list", msg)
}

func TestCorruptFilesDegradeToEmpty(t *testing.T) {
	dir := t.TempDir()
	conf := &structures.Config{}
	conf.Accounts.TrackedFile = filepath.Join(dir, "accounts.json")
	conf.Accounts.PendingFile = filepath.Join(dir, "pending_accounts.json")

	r, err := NewRegistry(conf)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(conf.Accounts.TrackedFile, []byte("not json"), 0644))

	assert.Empty(t, r.ListTracked())
	// the registry stays usable
	ok, _ := r.Submit("someuser", "")
	assert.True(t, ok)
}
