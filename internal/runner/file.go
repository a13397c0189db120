package runner

import (
	"context"
	"time"

	"github.com/hurlgo/hurl/internal/ast"
	"github.com/hurlgo/hurl/internal/httpclient"
	"github.com/hurlgo/hurl/internal/variables"
)

// ProgressFunc is the per-entry listener event of spec §4.9: "Emits a
// listener event per entry with (current_index, last_index, retry_count)".
type ProgressFunc func(currentIndex, lastIndex int, retryCount int64)

// FileRunner is the linear driver over one file's entries (spec §4.9):
// one VariableSet and one cookie jar threaded sequentially, in source
// order, with captures from entry N visible to entry N+1.
type FileRunner struct {
	Entry    *EntryRunner
	Jar      *httpclient.CookieJar
	FailFast bool
	ToEntry  int // 0 means no limit
	Progress ProgressFunc
}

// Run executes every entry of file in order against vs, returning the
// file's HurlResult regardless of outcome.
func (fr *FileRunner) Run(ctx context.Context, filename string, file *ast.File, vs *variables.VariableSet, base Options) HurlResult {
	started := time.Now()
	result := HurlResult{Filename: filename, Timestamp: started}

	lastIndex := len(file.Entries)
	if fr.ToEntry > 0 && fr.ToEntry < lastIndex {
		lastIndex = fr.ToEntry
	}

	success := true
	for i := 0; i < lastIndex; i++ {
		entry := file.Entries[i]
		entryResult := fr.Entry.Run(ctx, i+1, entry, vs, base)
		result.Entries = append(result.Entries, entryResult)

		if fr.Progress != nil {
			fr.Progress(i+1, lastIndex, entryResult.RetryCount)
		}

		if !entryResult.Success() {
			success = false
			if fr.FailFast {
				break
			}
		}
	}

	result.Success = success
	result.Duration = time.Since(started)
	if fr.Jar != nil {
		result.Cookies = fr.Jar.All()
	}
	return result
}
