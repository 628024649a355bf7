// Package history records the sed commands a session generated.
//
// The log is append-only and deduplicates adjacent entries: a command is
// recorded only if it differs from the one recorded immediately before it.
// Entries are stored oldest first and exported newest first:
//
//	log := history.New(500)
//	log.Append("sed -E -e 's|a|b|g' target_file.txt")
//	body, err := log.Text(time.Now())
//
// Exports come in two shapes, a plain text listing (Text) and a JSON
// document (JSON) that ParseJSON reads back.
package history
