package ephemeris

import (
	"strings"
	"testing"
)

func TestVSOP87OpenMissingDataset(t *testing.T) {
	// An empty directory has no VSOP87B.ear file, so the dataset load fails.
	opener := NewVSOP87(t.TempDir())

	_, err := opener.Open(Observer{Latitude: 35, Longitude: -106})
	if err == nil {
		t.Fatal("Open() succeeded with no dataset present")
	}
	if !strings.Contains(err.Error(), "VSOP87") {
		t.Errorf("error does not identify the dataset: %v", err)
	}

	// The load failure is cached; a second open reports the same fault
	// without retrying the filesystem.
	_, err2 := opener.Open(Observer{Latitude: 35, Longitude: -106})
	if err2 == nil {
		t.Fatal("second Open() succeeded after a failed load")
	}
}
