// Package ingest reads tweet dumps into examples.
//
// Two formats are understood, chosen by file extension:
//
//   - .csv: a header row with an "id" column and a "tweet" or "text" column.
//   - .json, .jsonl: one JSON object per line with "id" and "tweet" (or
//     "text") fields, as written by twint.
//
// ReadDump accepts a single file or a directory, which is read recursively in
// lexical order. Rows with empty text are skipped. Dedupe removes repeated ids.
package ingest
