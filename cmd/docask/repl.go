package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avellar/docask/internal/profile"
	"github.com/avellar/docask/internal/rag"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive console: load documents, pick a user, ask questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL(cmd)
	},
}

func init() {
	replCmd.Flags().String("model", "", "completion model (overrides GROQ_MODEL and config)")
}

func runREPL(cmd *cobra.Command) error {
	model, _ := cmd.Flags().GetString("model")

	a, cleanup, err := newApp(model, true)
	if err != nil {
		return err
	}
	defer cleanup()

	r := &repl{
		ctx:  cmd.Context(),
		app:  a,
		sess: rag.NewSession(),
		out:  os.Stdout,
		in:   bufio.NewReader(os.Stdin),
	}

	r.printHelp()

	for {
		if r.sess.UserID != "" {
			fmt.Fprintf(r.out, "\n[user (%s)]> ", r.sess.UserID)
		} else {
			fmt.Fprint(r.out, "\n> ")
		}

		line, err := r.in.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		if r.execLine(strings.TrimSpace(line)) {
			return nil
		}
	}
}

type repl struct {
	ctx  context.Context
	app  *app
	sess *rag.Session
	out  io.Writer
	in   *bufio.Reader
}

// execLine dispatches one console line and reports whether the loop
// should exit.
func (r *repl) execLine(line string) (exit bool) {
	if line == "" {
		return false
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "exit":
		fmt.Fprintln(r.out, "Goodbye!")
		return true

	case "help":
		r.printHelp()

	case "load":
		r.load(arg)

	case "load_url":
		r.loadURL(arg)

	case "list_docs":
		r.listDocs()

	case "remove_doc":
		if r.app.service.RemoveDocument(r.sess, arg) {
			fmt.Fprintf(r.out, "✓ Removed: %s\n", arg)
		} else {
			fmt.Fprintf(r.out, "✗ Document not found: %s\n", arg)
		}

	case "clear":
		r.app.service.ClearDocuments(r.sess)
		fmt.Fprintln(r.out, "✓ All documents cleared")

	case "list_users":
		r.listUsers()

	case "create_user":
		r.createUser()

	case "select_user":
		if p, ok := r.app.service.Profiles().Get(arg); ok {
			r.sess.UserID = arg
			fmt.Fprintf(r.out, "✓ Switched to user: %s (%s)\n", p.Name, p.ID)
		} else {
			fmt.Fprintf(r.out, "✗ User not found: %s\n", arg)
		}

	default:
		r.ask(line)
	}

	return false
}

func (r *repl) load(path string) {
	if path == "" {
		fmt.Fprintln(r.out, "✗ Usage: load <path>")
		return
	}
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(r.out, "✗ File not found: %s\n", path)
		return
	}

	fmt.Fprintln(r.out, "⏳ Loading PDF...")
	doc, err := r.app.service.LoadPDF(r.sess, path)
	if err != nil {
		fmt.Fprintf(r.out, "✗ Error loading PDF: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "✓ PDF loaded: %s (%d pages, %d characters)\n", doc.Name, doc.Pages, doc.CharCount)
}

func (r *repl) loadURL(url string) {
	if url == "" {
		fmt.Fprintln(r.out, "✗ Usage: load_url <url>")
		return
	}

	fmt.Fprintln(r.out, "⏳ Fetching page...")
	doc, err := r.app.service.LoadURL(r.ctx, r.sess, url)
	if err != nil {
		fmt.Fprintf(r.out, "✗ Error loading URL: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "✓ Page loaded: %s (%d characters)\n", doc.Name, doc.CharCount)
}

func (r *repl) listDocs() {
	docs := r.sess.Docs.List()
	if len(docs) == 0 {
		fmt.Fprintln(r.out, "ℹ No documents loaded. Use 'load <path>' to add PDFs.")
		return
	}

	fmt.Fprintln(r.out, "\nLoaded documents:")
	for i, doc := range docs {
		fmt.Fprintf(r.out, "  %d. %s (%d pages, %d chars)\n", i+1, doc.Name, doc.Pages, doc.CharCount)
	}
}

func (r *repl) listUsers() {
	users := r.app.service.Profiles().List()
	if len(users) == 0 {
		fmt.Fprintln(r.out, "ℹ No users found. Run 'create_user' to add users.")
		return
	}

	fmt.Fprintln(r.out, "\nAvailable users:")
	for _, u := range users {
		fmt.Fprintf(r.out, "  • %s (%s)\n", u.Name, u.ID)
		if len(u.Preferences) > 0 {
			fmt.Fprintf(r.out, "    Preferences: %s\n", strings.Join(u.Preferences, ", "))
		}
	}
}

func (r *repl) createUser() {
	id := r.prompt("  User ID: ")
	if id == "" {
		fmt.Fprintln(r.out, "✗ User ID is required")
		return
	}

	name := r.prompt("  User Name: ")
	if name == "" {
		fmt.Fprintln(r.out, "✗ User Name is required")
		return
	}

	prefs := splitCSV(r.prompt("  Preferences (comma-separated): "))
	history := splitCSV(r.prompt("  Interaction history (comma-separated): "))

	r.app.service.Profiles().Upsert(id, name, prefs, history)
	fmt.Fprintf(r.out, "✓ User '%s' created and saved\n", id)

	r.sess.UserID = id
	fmt.Fprintf(r.out, "✓ Switched to user '%s'\n", id)
}

func (r *repl) ask(question string) {
	if r.sess.UserID == "" {
		fmt.Fprintln(r.out, "⚠ No user selected. Use 'select_user <user_id>' or 'create_user' first.")
		return
	}

	fmt.Fprintln(r.out, "\n⏳ Generating personalized response...")
	answer := r.app.service.Ask(r.ctx, r.sess, question)
	fmt.Fprintf(r.out, "\nResponse:\n%s\n", answer)
}

func (r *repl) prompt(label string) string {
	fmt.Fprint(r.out, label)
	line, err := r.in.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func (r *repl) printHelp() {
	fmt.Fprint(r.out, `
============================================================
docask — document Q&A with user context
============================================================

Available commands:
  load <path>           - Load a PDF file
  load_url <url>        - Load a web page
  create_user           - Create a new user interactively
  list_users            - List all users
  select_user <user_id> - Select a user for chat
  list_docs             - List loaded documents
  remove_doc <name>     - Remove a specific document
  clear                 - Clear all loaded documents
  help                  - Show this help message
  exit                  - Exit the program

Or just type a question to ask about the loaded documents.
`)
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func newSessionForUser(userID string) *rag.Session {
	sess := rag.NewSession()
	sess.UserID = userID
	return sess
}

func seedDemoProfiles(a *app) []profile.Profile {
	return profile.SeedDemo(a.service.Profiles())
}
