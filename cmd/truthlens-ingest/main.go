// Command truthlens-ingest fetches, cleans, validates, enriches and
// deduplicates web documents into JSONL records.
package main

func main() {
	Execute()
}
