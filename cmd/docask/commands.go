package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avellar/docask/internal/storage"
)

// --- ask (one-shot) ---

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Load documents and ask a single question",
	Long: `Load one or more documents and ask a single question.

Examples:
  docask ask "What is the warranty period?" --pdf manual.pdf
  docask ask "Summarize this" --pdf a.pdf --pdf b.pdf --user alice_001
  docask ask "What does the page say?" --url https://example.com/article`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pdfs, _ := cmd.Flags().GetStringArray("pdf")
		urls, _ := cmd.Flags().GetStringArray("url")
		userID, _ := cmd.Flags().GetString("user")
		model, _ := cmd.Flags().GetString("model")

		a, cleanup, err := newApp(model, true)
		if err != nil {
			return err
		}
		defer cleanup()

		sess := newSessionForUser(userID)
		for _, path := range pdfs {
			doc, err := a.service.LoadPDF(sess, path)
			if err != nil {
				return fmt.Errorf("loading %s: %w", path, err)
			}
			printSuccess("Loaded %s (%d pages, %d characters)", doc.Name, doc.Pages, doc.CharCount)
		}
		for _, url := range urls {
			doc, err := a.service.LoadURL(cmd.Context(), sess, url)
			if err != nil {
				return fmt.Errorf("loading %s: %w", url, err)
			}
			printSuccess("Loaded %s (%d characters)", doc.Name, doc.CharCount)
		}

		answer := a.service.Ask(cmd.Context(), sess, args[0])
		fmt.Fprintln(os.Stdout, answer)
		return nil
	},
}

// --- profile ---

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage user profiles",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := newApp("", false)
		if err != nil {
			return err
		}
		defer cleanup()

		profiles := a.service.Profiles().List()
		if len(profiles) == 0 {
			printInfo("No profiles found. Use 'docask profile set' or 'docask profile seed' to add some.")
			return nil
		}
		for _, p := range profiles {
			fmt.Fprintf(os.Stdout, "%s (%s)\n", p.Name, p.ID)
			if len(p.Preferences) > 0 {
				fmt.Fprintf(os.Stdout, "  preferences: %s\n", strings.Join(p.Preferences, ", "))
			}
			if len(p.History) > 0 {
				fmt.Fprintf(os.Stdout, "  history: %d entries\n", len(p.History))
			}
		}
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a profile as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := newApp("", false)
		if err != nil {
			return err
		}
		defer cleanup()

		p, ok := a.service.Profiles().Get(args[0])
		if !ok {
			return fmt.Errorf("no profile with id %q", args[0])
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set <id>",
	Short: "Create a profile or update its non-empty fields",
	Long: `Create a profile or update its non-empty fields.

Only the flags you pass are applied; omitted fields keep their current
values.

Examples:
  docask profile set alice_001 --name "Alice Johnson" --prefs vegan,organic
  docask profile set alice_001 --history bought_smoothie,joined_gym`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		prefs, _ := cmd.Flags().GetStringSlice("prefs")
		history, _ := cmd.Flags().GetStringSlice("history")

		a, cleanup, err := newApp("", false)
		if err != nil {
			return err
		}
		defer cleanup()

		p := a.service.Profiles().Upsert(args[0], name, prefs, history)
		printSuccess("Saved profile %s (%s)", p.Name, p.ID)
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := newApp("", false)
		if err != nil {
			return err
		}
		defer cleanup()

		if !a.service.Profiles().Delete(args[0]) {
			return fmt.Errorf("no profile with id %q", args[0])
		}
		printSuccess("Deleted profile %s", args[0])
		return nil
	},
}

var profileSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the demo profiles (Alice and Bob)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := newApp("", false)
		if err != nil {
			return err
		}
		defer cleanup()

		seeded := seedDemoProfiles(a)
		for _, p := range seeded {
			printSuccess("Created profile %s (%s)", p.Name, p.ID)
		}
		printInfo("Profiles saved to %s", a.cfg.Storage.UsersFile)
		return nil
	},
}

// --- history ---

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent question/answer interactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, cleanup, err := newApp("", true)
		if err != nil {
			return err
		}
		defer cleanup()

		if a.log == nil {
			return fmt.Errorf("interaction log unavailable")
		}

		interactions, err := a.log.GetRecentInteractions(limit)
		if err != nil {
			return fmt.Errorf("listing interactions: %w", err)
		}
		if len(interactions) == 0 {
			printInfo("No interactions recorded yet.")
			return nil
		}

		for _, ix := range interactions {
			fmt.Fprintln(os.Stdout, formatInteraction(ix))
		}
		return nil
	},
}

func formatInteraction(ix storage.Interaction) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s]", ix.CreatedAt.Local().Format("2006-01-02 15:04"))
	if ix.UserID != "" {
		fmt.Fprintf(&sb, " %s", ix.UserID)
	}
	fmt.Fprintf(&sb, ": %s\n  %s", ix.Question, ix.Answer)
	return sb.String()
}

func init() {
	askCmd.Flags().StringArray("pdf", nil, "PDF file to load (repeatable)")
	askCmd.Flags().StringArray("url", nil, "web page to load (repeatable)")
	askCmd.Flags().String("user", "", "profile id for personalization")
	askCmd.Flags().String("model", "", "completion model (overrides GROQ_MODEL and config)")

	profileSetCmd.Flags().String("name", "", "display name")
	profileSetCmd.Flags().StringSlice("prefs", nil, "comma-separated preference tags")
	profileSetCmd.Flags().StringSlice("history", nil, "comma-separated history entries, most recent last")

	historyCmd.Flags().Int("limit", 20, "maximum number of interactions to show")

	profileCmd.AddCommand(profileListCmd, profileShowCmd, profileSetCmd, profileDeleteCmd, profileSeedCmd)
}
