package picker

import (
	"context"
	"sync"
	"time"

	"github.com/filetug/filepick/pkg/files"
	"github.com/filetug/filepick/pkg/files/memfile"
)

type storeMap map[string]files.Store

func (m storeMap) Resolve(device string) (files.Store, bool) {
	s, ok := m[device]
	return s, ok
}

// sampleStore builds the tree used by most scenarios:
//
//	/docs/readme.txt (120 bytes)
//	/games/
//	/boot.elf (4096 bytes)
//	/fifo (other)
func sampleStore() *memfile.Store {
	return memfile.NewStore("sd").
		AddDir("docs").
		AddFile("docs/readme.txt", 120).
		AddDir("games").
		AddFile("boot.elf", 4096).
		AddOther("fifo")
}

type listingRecord struct {
	device  string
	stage   Stage
	entries int
}

type recordingObserver struct {
	mu       sync.Mutex
	listings []listingRecord
	actions  []Action
}

func (o *recordingObserver) ObserveListing(device string, stage Stage, entries int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listings = append(o.listings, listingRecord{device: device, stage: stage, entries: entries})
}

func (o *recordingObserver) ObserveAction(action Action) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.actions = append(o.actions, action)
}

// countingLister wraps a Lister and counts calls per path.
type countingLister struct {
	inner Lister
	calls []string
}

func (l *countingLister) List(ctx context.Context, device, path string) (EntryList, error) {
	l.calls = append(l.calls, path)
	return l.inner.List(ctx, device, path)
}

func names(list EntryList) []string {
	result := make([]string, 0, list.Len())
	for _, entry := range list.All() {
		result = append(result, entry.Name())
	}
	return result
}
