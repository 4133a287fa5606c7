package run

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xhd2015/less-gen/flags"
	"github.com/xhd2015/partsearch/data/storage"
	"github.com/xhd2015/partsearch/models"
)

const historyHelp = `
history - List recently viewed products, newest first

Options:
  --limit <n>                  Show at most n entries (default 20, 0 for all)
  --json                       Output raw JSON data
  --clear                      Delete all recorded views
  --history <type>             History backend: sqlite (default), file, or none
  -h,--help                    Show this help message

Examples:
  partsearch history
  partsearch history --limit 5 --json
  partsearch history --clear
`

const defaultHistoryLimit = 20

func handleHistory(args []string) error {
	var historyType string
	var limit int64 = defaultHistoryLimit
	var jsonOutput bool
	var clear bool

	args, err := flags.String("--history", &historyType).
		Int("--limit", &limit).
		Bool("--json", &jsonOutput).
		Bool("--clear", &clear).
		Help("-h,--help", historyHelp).
		Parse(args)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		return fmt.Errorf("unrecognized extra argument: %s", strings.Join(args, " "))
	}
	if limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}

	if _, err := ensureConfigDir(); err != nil {
		return err
	}
	settings, err := ApplyConfigDefaults(Settings{History: historyType})
	if err != nil {
		return err
	}

	history, err := createHistoryService(settings.History)
	if err != nil {
		return err
	}
	defer history.Close()

	if clear {
		if err := history.Clear(); err != nil {
			return err
		}
		fmt.Println("history cleared")
		return nil
	}

	entries, err := history.List(storage.HistoryListOptions{Limit: int(limit)})
	if err != nil {
		return err
	}
	if jsonOutput {
		return outputJSON(os.Stdout, entries)
	}
	renderHistory(os.Stdout, entries)
	return nil
}

func renderHistory(out io.Writer, entries []models.HistoryEntry) {
	if len(entries) == 0 {
		io.WriteString(out, "no viewed products\n")
		return
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %-8s  %s", e.ViewTime.Local().Format("2006-01-02 15:04"), e.ProductID, e.PartNumber)
		if e.BrandName != "" {
			line += "  (" + e.BrandName + ")"
		}
		io.WriteString(out, line+"\n")
	}
}
