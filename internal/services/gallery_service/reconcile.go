package services

import (
	"gallery_app/internal/domain/models"
	storage "gallery_app/internal/storage/filestorage"
)

// Entry is one listing element: either a catalog record whose file is
// present on disk, or an orphan file with no record behind it.
type Entry struct {
	// Item is set for tracked records and nil for orphans.
	Item *models.GalleryItem
	// Filename is the on-disk name; for tracked entries it equals
	// Item.ImagePath.
	Filename string
}

func (e Entry) IsOrphan() bool {
	return e.Item == nil
}

// Reconcile merges the catalog with a directory snapshot. The catalog
// and the filesystem fail independently, so the merge tolerates
// disagreement instead of erroring:
//
//   - records are emitted in the order given (newest first per the
//     catalog contract) and claim their filename;
//   - a record whose file is missing from the snapshot is skipped
//     silently, the record itself stays in the catalog;
//   - unclaimed files with an accepted image extension are appended
//     after all records, in snapshot order.
//
// The function is pure: both inputs are plain slices, no I/O happens
// here.
func Reconcile(items []models.GalleryItem, files []string) []Entry {
	present := make(map[string]struct{}, len(files))
	for _, f := range files {
		present[f] = struct{}{}
	}

	claimed := make(map[string]struct{}, len(items))
	entries := make([]Entry, 0, len(items)+len(files))

	for i := range items {
		item := &items[i]
		if _, ok := present[item.ImagePath]; !ok {
			continue
		}
		claimed[item.ImagePath] = struct{}{}
		entries = append(entries, Entry{Item: item, Filename: item.ImagePath})
	}

	for _, f := range files {
		if _, ok := claimed[f]; ok {
			continue
		}
		if !storage.IsImage(f) {
			continue
		}
		entries = append(entries, Entry{Filename: f})
	}

	return entries
}
