package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todolist/internal/config"
	"github.com/idilsaglam/todolist/internal/logging"
	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/store"
	"github.com/idilsaglam/todolist/internal/store/backends"
	"github.com/idilsaglam/todolist/internal/todolist"
	"github.com/idilsaglam/todolist/internal/tui"
	"github.com/idilsaglam/todolist/internal/ui"
)

// Options wire the runner to its process environment.
type Options struct {
	Stdout, Stderr io.Writer
	Color          bool // emit ANSI colors
	Interactive    bool // a terminal is attached; no subcommand opens the TUI
}

type runner struct {
	cfg    *config.Config
	out    *ui.Printer
	logger *log.Logger
	opt    Options

	discarded string // stored value that failed to decode this session
}

// Run parses root flags, dispatches a subcommand and returns an exit code
// (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if opt.Stdout == nil {
		opt.Stdout = os.Stdout
	}
	if opt.Stderr == nil {
		opt.Stderr = os.Stderr
	}

	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.SetOutput(opt.Stderr)
	fs.Usage = func() { PrintHelp(opt.Stderr) }
	cfg, rest, err := config.Load(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(opt.Stderr, "config:", err)
		return 2
	}

	lopts := logging.DefaultOptions()
	lopts.Level = logging.ParseLevel(cfg.Log.Level)
	lopts.Writer = opt.Stderr
	r := &runner{
		cfg:    cfg,
		out:    ui.NewPrinter(opt.Stdout, opt.Stderr, ui.ThemeByName(cfg.UI.Theme), opt.Color),
		logger: logging.New(lopts),
		opt:    opt,
	}
	r.logger.Debug("config resolved", "backend", cfg.Store.Backend, "key", cfg.Store.Key, "files", cfg.ConfigFiles)

	if len(rest) == 0 {
		if opt.Interactive {
			return r.doTUI()
		}
		PrintHelp(opt.Stderr)
		return 2
	}
	return r.dispatch(rest[0], rest[1:])
}

func (r *runner) dispatch(cmd string, a []string) int {
	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(r.opt.Stdout)
		return 0

	case "tui":
		return r.doTUI()

	case "ls":
		return r.doList()

	case "add":
		if len(a) == 0 {
			r.out.Fail("usage: todo add <text...>")
			return 2
		}
		return r.doAdd(strings.Join(a, " "))

	case "done":
		n, code := r.indexArg("done", a)
		if code != 0 {
			return code
		}
		return r.doToggle(n)

	case "rm":
		n, code := r.indexArg("rm", a)
		if code != 0 {
			return code
		}
		return r.doRemove(n)

	case "clear":
		return r.doClear()

	case "export":
		return r.doExport()
	}

	r.out.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(r.opt.Stderr)
	PrintHelp(r.opt.Stderr)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `todo - a tiny todo list

Usage:
  todo [flags] <subcommand> [args]

Subcommands:
  tui                Interactive list (default on a terminal)
  add <text...>      Add a new item (text can be multiple words)
  ls                 List items
  done <index>       Toggle done for item at 1-based index
  rm <index>         Remove item at 1-based index
  clear              Remove every item
  export             Print the stored snapshot (as stored, even if unreadable)

Flags:
  --backend file|sqlite|redis|memory
  --data-dir <dir>   --key <name>   --config <file>
  --theme classic|neon|mono   --group   --ephemeral   --log-level <level>

Examples:
  todo add "Buy milk"
  todo ls
  todo done 2
  todo rm 3
`)
}

func (r *runner) indexArg(cmd string, a []string) (int, int) {
	if len(a) != 1 {
		r.out.Fail(fmt.Sprintf("usage: todo %s <index>", cmd))
		return 0, 2
	}
	n, err := strconv.Atoi(a[0])
	if err != nil {
		r.out.Fail(cmd + ": not a number: " + a[0])
		return 0, 2
	}
	return n, 0
}

// -------------- session ----------------

// session opens the configured store and loads the list. A corrupt snapshot
// is reported and replaced by an empty list; an unreadable store is fatal
// because a later write would clobber whatever it holds.
func (r *runner) session(logger *log.Logger) (*todolist.Manager, func() error, int) {
	adapter, closeFn, err := backends.Open(r.cfg, logger)
	if err != nil {
		r.out.Fail("open store: " + err.Error())
		return nil, closeFn, 1
	}
	m := todolist.New(adapter, todolist.WithLogger(logger))
	if err := m.Initialize(); err != nil {
		var dce *todolist.DataCorruptionError
		if errors.As(err, &dce) {
			r.discarded = dce.Raw
			r.out.Hint("warning: stored list was unreadable and has been reset; `todo export` prints it until the next change")
			return m, closeFn, 0
		}
		r.out.Fail("load: " + err.Error())
		return nil, closeFn, 1
	}
	return m, closeFn, 0
}

// persisted reports the sync outcome of the mutation just made.
func (r *runner) persisted(m *todolist.Manager, msg string) int {
	if err := m.LastSyncError(); err != nil {
		r.out.Fail("save: " + err.Error())
		if errors.Is(err, store.ErrStorage) {
			r.out.Hint("Hint: the change was not stored; check the backend settings")
		}
		return 1
	}
	r.out.OK(msg)
	return 0
}

// -------------- subcommand impls ----------------

func (r *runner) doList() int {
	m, closeFn, code := r.session(r.logger)
	defer closeFn()
	if code != 0 {
		return code
	}
	items := m.Items()
	t := r.out.Theme

	d, p := m.Stats()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		r.out.C(t.Title, "Todos"),
		r.out.C(t.Success, t.SymDone), d,
		r.out.C(t.Pending, t.SymPending), p,
		r.out.C(t.Accent, "Total"), len(items),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, r.out.C(t.Muted, ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	if r.cfg.UI.Group {
		lines = append(lines, r.groupLines(items)...)
	} else {
		lines = append(lines, r.flatLines(items, allIndexes(len(items)))...)
	}
	lines = append(lines, "")
	lines = append(lines, r.out.C(t.Muted, "Tip: add with `todo add \"Buy milk\"`"))
	r.out.Panel(lines)
	return 0
}

func (r *runner) doAdd(text string) int {
	m, closeFn, code := r.session(r.logger)
	defer closeFn()
	if code != 0 {
		return code
	}
	m.SetPendingInput(text)
	if !m.Commit() {
		r.out.Fail("add: empty text")
		return 2
	}
	return r.persisted(m, "added")
}

func (r *runner) doToggle(userIndex int) int {
	return r.mutateAt(userIndex, "toggled", func(m *todolist.Manager, i int) error {
		return m.ToggleComplete(i)
	})
}

func (r *runner) doRemove(userIndex int) int {
	return r.mutateAt(userIndex, "removed", func(m *todolist.Manager, i int) error {
		return m.DeleteItem(i)
	})
}

func (r *runner) mutateAt(userIndex int, msg string, op func(*todolist.Manager, int) error) int {
	m, closeFn, code := r.session(r.logger)
	defer closeFn()
	if code != 0 {
		return code
	}
	// user input is checked here; the Manager treats a bad index as a caller bug
	if userIndex < 1 || userIndex > m.Len() {
		r.out.Fail(fmt.Sprintf("index out of range: have %d, got %d", m.Len(), userIndex))
		r.out.Hint("Hint: run `todo ls` to see valid indexes")
		return 2
	}
	if err := op(m, userIndex-1); err != nil {
		r.out.Fail(err.Error())
		return 1
	}
	return r.persisted(m, msg)
}

func (r *runner) doClear() int {
	m, closeFn, code := r.session(r.logger)
	defer closeFn()
	if code != 0 {
		return code
	}
	n := m.Len()
	m.DeleteAll()
	return r.persisted(m, fmt.Sprintf("cleared %d item(s)", n))
}

func (r *runner) doExport() int {
	m, closeFn, code := r.session(r.logger)
	defer closeFn()
	if code != 0 {
		return code
	}
	if r.discarded != "" {
		fmt.Fprintln(r.opt.Stdout, r.discarded)
		return 0
	}
	snap, err := todolist.Encode(m.Items())
	if err != nil {
		r.out.Fail("export: " + err.Error())
		return 1
	}
	fmt.Fprintln(r.opt.Stdout, snap)
	return 0
}

func (r *runner) doTUI() int {
	// the alt screen owns the terminal, so logs go to a file or nowhere
	logger := logging.Discard()
	if r.cfg.Log.File != "" {
		l, f, err := logging.OpenFile(r.cfg.Log.File, logging.ParseLevel(r.cfg.Log.Level))
		if err != nil {
			r.out.Fail("log: " + err.Error())
			return 1
		}
		defer f.Close()
		logger = l
	}

	m, closeFn, code := r.session(logger)
	defer closeFn()
	if code != 0 {
		return code
	}
	if err := tui.Run(m, tui.Options{Theme: r.cfg.UI.Theme, AltScreen: true}); err != nil {
		r.out.Fail("tui: " + err.Error())
		return 1
	}
	if err := m.LastSyncError(); err != nil {
		r.out.Fail("last change was not stored: " + err.Error())
		return 1
	}
	return 0
}

// -------------- rendering helpers --------------

func allIndexes(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// flatLines renders items[idx...] numbered by their position in the full list,
// so the numbers shown are the ones done/rm accept.
func (r *runner) flatLines(items []model.Item, idx []int) []string {
	t := r.out.Theme
	if len(idx) == 0 {
		return []string{r.out.C(t.Muted, "no items")}
	}
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		it := items[i]
		num := fmt.Sprintf("%2d.", i+1)
		box, color := t.BoxUnchecked, t.Muted
		if it.Completed {
			box, color = t.BoxChecked, t.Success
		}
		text := it.Text
		if rs := []rune(text); len(rs) > 80 {
			text = string(rs[:77]) + "..."
		}
		out = append(out, fmt.Sprintf("%s %s %s",
			r.out.C(t.Dim, num), r.out.C(color, box), text))
	}
	return out
}

func (r *runner) groupLines(items []model.Item) []string {
	t := r.out.Theme
	var pend, done []int
	for i, it := range items {
		if it.Completed {
			done = append(done, i)
		} else {
			pend = append(pend, i)
		}
	}
	var lines []string
	lines = append(lines, r.out.C(t.Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, r.out.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, r.flatLines(items, pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, r.out.C(t.Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, r.out.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, r.flatLines(items, done)...)
	}
	return lines
}
