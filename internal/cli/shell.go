package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/prompt-canvas/internal/api"
	"github.com/rcliao/prompt-canvas/internal/render"
	"github.com/rcliao/prompt-canvas/internal/session"
)

func init() {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive canvas session",
		Long: "Line-driven canvas session. Commands: draw <prompt>, undo, redo, clear, save <name>, " +
			"open <index>, list, show, svg <file>, log, help, quit.",
		Run: runShell,
	}

	cmd.Flags().String("remote", "", "Use a running server instead of local storage and model (default: remote.base_url from config)")

	RootCmd.AddCommand(cmd)
}

const shellHelp = `draw <prompt>   generate a drawing on the active canvas
undo | redo     step through history
clear           remove every drawing
save <name>     save the active canvas and start a new one
open <index>    switch canvas (see list)
list            list canvases
show            print the active canvas drawings as JSON
svg <file>      render the active canvas to a file
log             print the chat log
quit            leave`

func runShell(cmd *cobra.Command, args []string) {
	remote, _ := cmd.Flags().GetString("remote")

	ctx := cmd.Context()
	cfg := loadConfig()
	if remote == "" {
		remote = cfg.Remote.BaseURL
	}
	logger := newLogger(cfg)
	defer logger.Sync()
	defer setupTracing(ctx, cfg)()

	var (
		gen session.Generator
		st  session.Storage
	)
	if remote != "" {
		c := api.NewClient(remote, cfg.LLM.Timeout)
		gen, st = c, c
	} else {
		s, err := openStore(cfg)
		if err != nil {
			exitErr("open store", err)
		}
		defer s.Close()
		gen, st = newPipeline(ctx, cfg, s, logger, nil), s
	}

	sess := session.New(gen, st, logger)
	out := cmd.OutOrStdout()
	if err := sess.Bootstrap(ctx); err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
	}

	if err := newShell(sess, out).run(ctx, os.Stdin); err != nil {
		exitErr("shell", err)
	}
}

type shell struct {
	sess *session.Session
	out  io.Writer
}

func newShell(sess *session.Session, out io.Writer) *shell {
	return &shell{sess: sess, out: out}
}

// run executes one command per input line until quit or end of input.
func (sh *shell) run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if quit := sh.exec(ctx, line); quit {
			return nil
		}
	}
	return sc.Err()
}

func (sh *shell) exec(ctx context.Context, line string) bool {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprintln(sh.out, shellHelp)
	case "draw":
		d, err := sh.sess.AddDrawing(ctx, rest)
		if err != nil {
			sh.fail(err)
			return false
		}
		fmt.Fprintf(sh.out, "added %q with %d shapes\n", d.Description, len(d.Shapes))
	case "undo":
		sh.edit(sh.sess.Undo())
	case "redo":
		sh.edit(sh.sess.Redo())
	case "clear":
		sh.edit(sh.sess.Clear())
	case "save":
		saved, err := sh.sess.Save(ctx, rest)
		if err != nil {
			sh.fail(err)
			return false
		}
		fmt.Fprintf(sh.out, "saved canvas %d %q\n", saved.ID, saved.Name)
	case "open":
		sh.open(ctx, rest)
	case "list":
		sh.list()
	case "show":
		_, e := sh.sess.Active()
		b, _ := json.MarshalIndent(e.Drawings, "", "  ")
		fmt.Fprintln(sh.out, string(b))
	case "svg":
		sh.svg(rest)
	case "log":
		for _, m := range sh.sess.Messages() {
			fmt.Fprintf(sh.out, "%s: %s\n", m.From, m.Text)
		}
	default:
		fmt.Fprintf(sh.out, "unknown command %q (try help)\n", name)
	}
	return false
}

func (sh *shell) edit(err error) {
	if err != nil {
		sh.fail(err)
		return
	}
	_, e := sh.sess.Active()
	undo, redo := sh.sess.HistoryLen()
	fmt.Fprintf(sh.out, "%d drawings (undo %d, redo %d)\n", len(e.Drawings), undo, redo)
}

func (sh *shell) open(ctx context.Context, arg string) {
	idx, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Fprintf(sh.out, "error: open needs a canvas index\n")
		return
	}
	done, err := sh.sess.Select(ctx, idx)
	if err != nil {
		sh.fail(err)
		return
	}
	if err := <-done; err != nil {
		sh.fail(err)
		return
	}
	_, e := sh.sess.Active()
	fmt.Fprintf(sh.out, "opened %q (%s, %d drawings)\n", e.Name, e.State, len(e.Drawings))
}

func (sh *shell) list() {
	active, _ := sh.sess.Active()
	for i, e := range sh.sess.Canvases() {
		marker := " "
		if i == active {
			marker = "*"
		}
		fmt.Fprintf(sh.out, "%s %d\t%s\t%s\t%d drawings\n", marker, i, e.Name, e.State, len(e.Drawings))
	}
}

func (sh *shell) svg(path string) {
	if path == "" {
		fmt.Fprintf(sh.out, "error: svg needs a file name\n")
		return
	}
	f, err := os.Create(path)
	if err != nil {
		sh.fail(err)
		return
	}
	defer f.Close()

	_, e := sh.sess.Active()
	if err := render.SVG(f, e.Drawings); err != nil {
		sh.fail(err)
		return
	}
	fmt.Fprintf(sh.out, "wrote %s\n", path)
}

func (sh *shell) fail(err error) {
	fmt.Fprintf(sh.out, "error: %v\n", err)
}
