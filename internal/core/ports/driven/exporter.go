package driven

import (
	"io"

	"github.com/custodia-labs/calsync/internal/core/domain"
)

// EventExporter serialises a calendar's events to a writer.
type EventExporter interface {
	// Export writes events to w.
	Export(w io.Writer, cal *domain.Calendar, events []domain.Event) error

	// ContentType returns the MIME type of the produced document.
	ContentType() string
}
