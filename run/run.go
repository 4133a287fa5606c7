package run

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xhd2015/go-dom-tui/charm"
	domlog "github.com/xhd2015/go-dom-tui/log"
	"github.com/xhd2015/less-gen/flags"
	"github.com/xhd2015/partsearch/app"
	"github.com/xhd2015/partsearch/data"
	"github.com/xhd2015/partsearch/data/asset"
	"github.com/xhd2015/partsearch/data/storage"
	httpstore "github.com/xhd2015/partsearch/data/storage/http"
	"github.com/xhd2015/partsearch/internal/config"
	"github.com/xhd2015/partsearch/internal/process"
	"github.com/xhd2015/partsearch/log"
	"github.com/xhd2015/partsearch/models"
	"github.com/xhd2015/partsearch/searchbox"
)

const help = `
partsearch - search a parts catalog from the terminal

Usage: partsearch [OPTIONS]
       partsearch <cmd> [OPTIONS]

Available sub commands:
  lookup <query>                   print suggestions for a query
  show <productID>                 print a product card
  history                          list recently viewed products
  config                           show or change saved settings

Options:
  --api-base-url <url>             catalog API base URL (env PARTSEARCH_API_BASE_URL)
  --asset-base-url <url>           image host base URL (env PARTSEARCH_ASSET_BASE_URL)
  --history <type>                 history backend: sqlite (default), file, or none
  --debounce <ms>                  quiet period before suggestions are requested (default 500)
  --no-images                      do not download product images
  --debug-log <file>               enable debug logging to specified file
  --show-path                      print the config directory and exit
  -h,--help                        show this help message

Examples:
  partsearch --api-base-url=https://api.example.com
  partsearch --history=file        keep history in history.json
  partsearch lookup brake --json
`

func Main(args []string) error {
	if len(args) > 0 {
		arg0 := args[0]
		switch arg0 {
		case "lookup":
			return handleLookup(args[1:])
		case "show":
			return handleShow(args[1:])
		case "history":
			return handleHistory(args[1:])
		case "config":
			return handleConfig(args[1:])
		}
	}

	var debugLogFile string
	var flagSettings Settings
	var debounceMs int64
	var showPath bool

	args, err := flags.String("--api-base-url", &flagSettings.APIBaseURL).
		String("--asset-base-url", &flagSettings.AssetBaseURL).
		String("--history", &flagSettings.History).
		Int("--debounce", &debounceMs).
		Bool("--no-images", &flagSettings.DisableImages).
		String("--debug-log", &debugLogFile).
		Bool("--show-path", &showPath).
		Help("-h,--help", help).
		Parse(args)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		return fmt.Errorf("unrecognized extra arguments: %s", strings.Join(args, " "))
	}
	if debounceMs < 0 {
		return fmt.Errorf("--debounce must not be negative")
	}
	flagSettings.Debounce = time.Duration(debounceMs) * time.Millisecond

	confDir, err := ensureConfigDir()
	if err != nil {
		return err
	}
	if showPath {
		fmt.Println(confDir)
		return nil
	}

	settings, err := ApplyConfigDefaults(flagSettings)
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	release, err := acquireInstance()
	if err != nil {
		return err
	}
	defer release()

	logDir, err := config.GetLogDir()
	if err != nil {
		return err
	}
	if err := log.Init(logDir); err != nil {
		return err
	}
	defer log.Close()

	if debugLogFile != "" {
		file, err := os.OpenFile(debugLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open debug log file: %w", err)
		}
		defer file.Close()
		domlog.SetLogger(domlog.NewFileLogger(file))
	}

	history, err := createHistoryService(settings.History)
	if err != nil {
		return err
	}
	defer history.Close()

	log.Info(context.Background(), "start", "settings", log.JSON(settings))
	return runTUI(settings, history)
}

type postMsg struct {
	fn func()
}

func runTUI(settings Settings, history storage.HistoryService) error {
	catalog := httpstore.NewCatalogService(httpstore.NewClient(settings.APIBaseURL, settings.Timeout))
	fetcher := asset.NewFetcher(settings.AssetBaseURL, settings.Timeout)

	var p *tea.Program
	opts := searchbox.Options{
		Catalog: catalog,
		History: history,
		Post: func(fn func()) {
			p.Send(postMsg{fn: fn})
		},
		Debounce:       settings.Debounce,
		BlurDelay:      settings.BlurDelay,
		RequestTimeout: settings.Timeout,
	}
	if !settings.DisableImages {
		opts.Thumbnail = asset.ThumbnailLoader(fetcher, asset.DefaultThumbnailWidth, asset.DefaultThumbnailRows)
	}
	search := searchbox.New(opts)
	defer search.Close()

	appState := app.State{
		Search: search,
		Input: models.InputState{
			Focused: true,
		},
		Refresh: func() {
			p.Send(cursor.Blink())
		},
		StatusBar: app.StatusBar{
			History: settings.History,
		},
	}
	if settings.AssetBaseURL != "" {
		appState.AssetURL = fetcher.URL
	}
	if !clipboard.Unsupported {
		appState.CopyToClipboard = clipboard.WriteAll
	}
	search.OnFocus()

	model := &Model{
		app: charm.NewCharmApp(&appState, app.App),
	}
	appState.Quit = func() {
		model.quit = true
	}

	p = tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// acquireInstance records this process in config.toml, failing if another
// partsearch is still running. release clears the record.
func acquireInstance() (release func(), err error) {
	conf, err := data.LoadConfig()
	if err != nil {
		return nil, err
	}
	if conf == nil {
		conf = &models.Config{}
	}
	if err := process.CheckSingleInstance(conf.RunningPID); err != nil {
		return nil, err
	}
	pid := os.Getpid()
	conf.RunningPID = pid
	if err := data.SaveConfig(conf); err != nil {
		return nil, err
	}
	return func() {
		conf, err := data.LoadConfig()
		if err != nil || conf == nil || conf.RunningPID != pid {
			return
		}
		conf.RunningPID = 0
		data.SaveConfig(conf)
	}, nil
}

func ensureConfigDir() (string, error) {
	confDir, err := config.GetConfigDir()
	if err != nil {
		return "", err
	}
	err = os.MkdirAll(confDir, 0755)
	if err != nil {
		return "", fmt.Errorf("failed to create config dir: %w", err)
	}
	return confDir, nil
}

type Model struct {
	quit bool
	app  *charm.CharmApp[app.State]
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case postMsg:
		// controller work handed back from timers and requests
		msg.fn()
	default:
		m.app.Update(msg)
	}
	if m.quit {
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) View() string {
	return m.app.Render()
}
