// Package ingestion loads a pre-built search index file into a page repository
// and keeps it current.
//
// The index file is JSON:
//
//	{
//	  "levels": {"": "Book", "1": "Getting Started", "1.2": "Install"},
//	  "pages": [
//	    {"title": "Install", "url": "setup/install.html", "body": "...", "level": "1.2"}
//	  ]
//	}
//
// Loader replaces the repository contents with the file in a single
// transaction. Watcher reloads the file whenever it changes on disk and calls
// back once the new index is in place, which hosts use as the "search backend
// ready" signal.
package ingestion
