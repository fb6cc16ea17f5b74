package vision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"smart-traffic/internal/domain/entity"
	"smart-traffic/internal/domain/port"
)

var (
	_ port.VehicleDetector = (*CascadeDetector)(nil)
	_ port.SourceOpener    = (*CaptureOpener)(nil)
)

func TestNewCascadeDetector_MissingModel(t *testing.T) {
	_, err := NewCascadeDetector("testdata/does-not-exist.xml")
	require.ErrorIs(t, err, entity.ErrModelUnavailable)
}

func TestCaptureOpener_MissingFile(t *testing.T) {
	_, err := NewCaptureOpener(0, 0).Open(context.Background(), "testdata/does-not-exist.mp4")
	require.ErrorIs(t, err, entity.ErrSourceUnavailable)
}
