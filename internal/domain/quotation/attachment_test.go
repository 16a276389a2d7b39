package quotation

import (
	"strings"
	"testing"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAttachment(t *testing.T) {
	qid := uuid.New()

	t.Run("strips directories and derives storage key", func(t *testing.T) {
		a, err := NewAttachment(qid, "", `C:\scans\invoice.PDF`, 2048, "Application/PDF", nil)
		require.NoError(t, err)
		assert.Equal(t, "invoice.PDF", a.FileName)
		assert.Equal(t, AttachmentKindDocument, a.Kind)
		assert.Equal(t, AttachmentStatusPending, a.Status)
		assert.True(t, strings.HasPrefix(a.StorageKey, "quotations/"+qid.String()+"/"))
		assert.True(t, strings.HasSuffix(a.StorageKey, ".PDF"))
	})

	t.Run("rejects unsupported type", func(t *testing.T) {
		_, err := NewAttachment(qid, "", "run.exe", 10, "application/x-msdownload", nil)
		assert.True(t, shared.IsDomainError(err, "INVALID_CONTENT_TYPE"))
	})

	t.Run("rejects oversized file", func(t *testing.T) {
		_, err := NewAttachment(qid, "", "a.pdf", MaxAttachmentFileSize+1, "application/pdf", nil)
		assert.True(t, shared.IsDomainError(err, "INVALID_FILE_SIZE"))
	})
}

func TestAttachmentLifecycle(t *testing.T) {
	a, err := NewAttachment(uuid.New(), AttachmentKindOfferPDF, "offer.pdf", 10, "application/pdf", nil)
	require.NoError(t, err)

	require.NoError(t, a.Confirm())
	assert.True(t, shared.IsDomainError(a.Confirm(), "ALREADY_CONFIRMED"))
	require.NoError(t, a.Delete())
	assert.True(t, shared.IsDomainError(a.Delete(), "ALREADY_DELETED"))
	assert.True(t, shared.IsDomainError(a.Confirm(), "CANNOT_CONFIRM_DELETED"))
}
