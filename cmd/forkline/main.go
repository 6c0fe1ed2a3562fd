package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kokistudios/forkline/internal/forkgraph"
	forklinemcp "github.com/kokistudios/forkline/internal/mcp"
	"github.com/kokistudios/forkline/internal/store"
	"github.com/kokistudios/forkline/internal/transcript"
	"github.com/kokistudios/forkline/internal/turnid"
	"github.com/kokistudios/forkline/internal/ui"
	"github.com/kokistudios/forkline/internal/verify"
)

// Set via ldflags at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func buildVersion() string {
	if commit == "none" {
		return version
	}
	return fmt.Sprintf("%s (%s, %s)", version, commit, date)
}

func main() {
	var noColor bool

	rootCmd := &cobra.Command{
		Use:   "forkline",
		Short: "forkline — branch AI conversations and keep them linked",
		Long:  "A local CLI that forks an ongoing AI chat conversation at any turn into a new conversation, keeping a navigable link between every branch derived from the same point.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ui.Init(noColor)
		},
	}

	rootCmd.Version = buildVersion()
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	// Command groups
	rootCmd.AddGroup(
		&cobra.Group{ID: "core", Title: "Core Commands:"},
		&cobra.Group{ID: "branch", Title: "Branch Commands:"},
		&cobra.Group{ID: "sync", Title: "Sync Commands:"},
		&cobra.Group{ID: "config", Title: "Configuration:"},
	)

	initC := initCmd()
	initC.GroupID = "core"
	doctorC := doctorCmd()
	doctorC.GroupID = "core"

	forkC := forkCmd()
	forkC.GroupID = "branch"
	branchesC := branchesCmd()
	branchesC.GroupID = "branch"
	exportC := exportCmd()
	exportC.GroupID = "branch"
	removeC := removeCmd()
	removeC.GroupID = "branch"
	pruneC := pruneCmd()
	pruneC.GroupID = "branch"

	syncC := syncCmd()
	syncC.GroupID = "sync"

	configC := configCmd()
	configC.GroupID = "config"

	rootCmd.AddCommand(initC)
	rootCmd.AddCommand(forkC)
	rootCmd.AddCommand(branchesC)
	rootCmd.AddCommand(exportC)
	rootCmd.AddCommand(removeC)
	rootCmd.AddCommand(pruneC)
	rootCmd.AddCommand(syncC)
	rootCmd.AddCommand(doctorC)
	rootCmd.AddCommand(configC)
	rootCmd.AddCommand(completionCmd())
	rootCmd.AddCommand(mcpServeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:     "init",
		Short:   "Initialize FORKLINE_HOME directory structure",
		Long:    "Create the FORKLINE_HOME directory (~/.forkline by default) with snapshots/ and config.yaml. Run this once before using any other forkline commands.",
		Example: "  forkline init\n  forkline init --force",
		RunE: func(cmd *cobra.Command, args []string) error {
			home := store.Home()
			if err := store.Init(home, force); err != nil {
				return err
			}
			ui.Logo()
			ui.Success("forkline initialized")
			ui.Detail("Home:", home)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Reinitialize even if FORKLINE_HOME already exists")
	return cmd
}

func loadStore() (*store.Store, error) {
	s, err := store.Load(store.Home())
	if err != nil {
		return nil, fmt.Errorf("forkline not initialized — run 'forkline init' first: %w", err)
	}
	return s, nil
}

// resolveTurnID accepts either a stable turn id ("u-3") or a bare turn
// number ("3") and returns the stable form.
func resolveTurnID(raw string) string {
	if n, err := strconv.Atoi(raw); err == nil {
		return turnid.Stable(n)
	}
	return raw
}

// loadTurns reads the extractor's turns JSON file: an ordered array of
// {turnId, user, assistant} objects.
func loadTurns(path string) ([]transcript.Turn, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read turns file %s: %w", path, err)
	}
	var turns []transcript.Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, fmt.Errorf("turns file %s is not a valid turns array: %w", path, err)
	}
	return turns, nil
}

// newConversationID mints an id for the forked conversation when the
// caller does not supply one: date, a slug from the title, and a short
// random suffix.
func newConversationID(title string) string {
	slug := "fork"
	if title != "" {
		var b strings.Builder
		for _, r := range strings.ToLower(title) {
			switch {
			case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
				b.WriteRune(r)
			case r == ' ' || r == '-' || r == '_':
				b.WriteRune('-')
			}
		}
		if s := strings.Trim(b.String(), "-"); s != "" {
			if len(s) > 24 {
				s = s[:24]
			}
			slug = s
		}
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%s-%s-%s", time.Now().Format("20060102"), slug, suffix)
}

func forkCmd() *cobra.Command {
	var conversationID, turn, turnsPath, title, url, newConvID, language, outPath string
	var keepLastAssistant bool

	cmd := &cobra.Command{
		Use:   "fork",
		Short: "Fork a conversation at a turn into a new linked conversation",
		Long: `Fork a conversation at a given turn. The fork plan is resolved against
previously recorded nodes: forking the same turn again joins the existing
fork group and receives the next index. Two nodes are recorded (one for the
source conversation, one for the new one), and the seeded transcript
(markdown history wrapped in a continuation preamble) is composed from the
turns file.`,
		Example: `  forkline fork --conversation conv-a --turn 3 --turns turns.json --title "API redesign"
  forkline fork --conversation conv-a --turn u-3 --turns turns.json --out seed.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore()
			if err != nil {
				return err
			}

			turnID := resolveTurnID(turn)
			turns, err := loadTurns(turnsPath)
			if err != nil {
				return err
			}
			// The turns file may cover the whole conversation; the seed
			// must stop at the fork point.
			turns = transcript.TruncateAtTurn(turns, turnID)

			data, err := s.LoadForkNodes()
			if err != nil {
				return err
			}

			convNodes := data.Nodes[conversationID]
			groups := forkgraph.GroupIndex(data.Nodes, convNodes)
			plan := forkgraph.ResolvePlan(conversationID, turnID, convNodes, groups, uuid.NewString)

			targetID := newConvID
			if targetID == "" {
				targetID = newConversationID(title)
			}
			now := time.Now().UnixMilli()

			sourceNode := forkgraph.ForkNode{
				ConversationID:    conversationID,
				TurnID:            turnID,
				ForkGroupID:       plan.ForkGroupID,
				ForkIndex:         plan.SourceForkIndex,
				CreatedAt:         now,
				ConversationURL:   url,
				ConversationTitle: title,
			}
			newNode := forkgraph.ForkNode{
				ConversationID: targetID,
				TurnID:         turnID,
				ForkGroupID:    plan.ForkGroupID,
				ForkIndex:      plan.NextForkIndex,
				CreatedAt:      now,
			}

			if _, err := s.AddForkNode(sourceNode); err != nil {
				return err
			}
			if _, err := s.AddForkNode(newNode); err != nil {
				return err
			}

			lang := language
			if lang == "" {
				lang = s.Config.Language
			}
			md := transcript.BuildMarkdown(title, turns, !keepLastAssistant)
			seed := ""
			if md != "" {
				seed = transcript.ComposeWithContext(md, lang)
			}

			ui.Success("Fork recorded")
			ui.KeyValue("Group: ", plan.ForkGroupID)
			ui.KeyValue("Source:", fmt.Sprintf("%s #%d", conversationID, plan.SourceForkIndex))
			ui.KeyValue("Branch:", fmt.Sprintf("%s #%d", targetID, plan.NextForkIndex))

			if outPath != "" {
				if err := os.WriteFile(outPath, []byte(seed), 0644); err != nil {
					return fmt.Errorf("failed to write seed transcript: %w", err)
				}
				ui.Detail("Seed:", outPath)
				return nil
			}
			fmt.Print(seed)
			return nil
		},
	}

	cmd.Flags().StringVar(&conversationID, "conversation", "", "Conversation id being forked")
	cmd.Flags().StringVar(&turn, "turn", "", "Turn to fork at (number or stable id like u-3)")
	cmd.Flags().StringVar(&turnsPath, "turns", "", "Path to the turns JSON file (ordered {turnId, user, assistant} array)")
	cmd.Flags().StringVar(&title, "title", "", "Conversation title for the transcript heading and node metadata")
	cmd.Flags().StringVar(&url, "url", "", "Conversation URL stored as node metadata")
	cmd.Flags().StringVar(&newConvID, "new-conversation", "", "Id for the new conversation (generated if omitted)")
	cmd.Flags().StringVar(&language, "language", "", "Preamble locale hint (defaults to configured language)")
	cmd.Flags().StringVar(&outPath, "out", "", "Write the seed transcript to a file instead of stdout")
	cmd.Flags().BoolVar(&keepLastAssistant, "keep-last-assistant", false, "Keep the final turn's assistant text in the transcript")
	_ = cmd.MarkFlagRequired("conversation")
	_ = cmd.MarkFlagRequired("turn")
	_ = cmd.MarkFlagRequired("turns")
	return cmd
}

func branchesCmd() *cobra.Command {
	var turn string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "branches <conversation-id>",
		Short: "List the branches linked to a conversation",
		Long:  "List the deduplicated, ordered branch nodes reachable from a conversation, optionally scoped to the fork groups anchored at one turn. Position in the table is the branch number.",
		Example: `  forkline branches conv-a
  forkline branches conv-a --turn 3
  forkline branches conv-a --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore()
			if err != nil {
				return err
			}

			data, err := s.LoadForkNodes()
			if err != nil {
				return err
			}

			turnID := ""
			if turn != "" {
				turnID = resolveTurnID(turn)
			}
			nodes := forkgraph.DisplayForConversation(data, args[0], turnID)

			if asJSON {
				enc, err := json.MarshalIndent(nodes, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(enc))
				return nil
			}

			if len(nodes) == 0 {
				ui.EmptyState("No branches recorded for this conversation.")
				return nil
			}

			var rows [][]string
			for i, n := range nodes {
				title := n.ConversationTitle
				if title == "" {
					title = ui.Dim("(untitled)")
				}
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					n.ConversationID,
					n.TurnID,
					title,
					time.UnixMilli(n.CreatedAt).Format("2006-01-02 15:04"),
				})
			}
			ui.Table([]string{"#", "CONVERSATION", "TURN", "TITLE", "CREATED"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&turn, "turn", "", "Restrict to fork groups anchored at this turn")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func syncCmd() *cobra.Command {
	var remote string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Merge the local store with the remote snapshot",
		Long: `Read both replicas completely, merge them (newer createdAt wins per node,
ties favor local), and write the merged result back to the local store and
the remote snapshot file. The groups index is rebuilt from the merged node
table, never merged directly.`,
		Example: `  forkline sync
  forkline sync --remote /mnt/share/forkline.json
  forkline sync --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore()
			if err != nil {
				return err
			}

			remotePath := remote
			if remotePath == "" {
				remotePath = s.Config.Remote.SnapshotPath
			}
			if remotePath == "" {
				remotePath = s.Path("snapshots", "remote.json")
			}

			local, err := s.LoadForkNodes()
			if err != nil {
				return err
			}
			cloud, err := store.ReadSnapshot(remotePath)
			if err != nil {
				ui.Warning(fmt.Sprintf("Remote snapshot unreadable, treating as empty: %v", err))
			}

			merged := forkgraph.Merge(&local, &cloud)

			localCount, cloudCount, mergedCount := countNodes(local), countNodes(cloud), countNodes(merged)
			ui.Status(fmt.Sprintf("Local %d node(s), remote %d node(s), merged %d node(s)", localCount, cloudCount, mergedCount))

			if dryRun {
				if forkgraph.Equal(merged, local) && forkgraph.Equal(merged, cloud) {
					ui.Info("Replicas already in sync. Nothing to write.")
				} else {
					ui.Info("Run without --dry-run to write the merged result.")
				}
				return nil
			}

			if err := s.SaveForkNodes(merged); err != nil {
				return err
			}
			if err := store.WriteSnapshot(remotePath, merged); err != nil {
				return err
			}
			ui.Success("Replicas synchronized")
			ui.Detail("Remote:", remotePath)
			return nil
		},
	}
	cmd.Flags().StringVar(&remote, "remote", "", "Remote snapshot path (defaults to remote.snapshot_path from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without writing")
	return cmd
}

func countNodes(data forkgraph.ForkNodesData) int {
	total := 0
	for _, nodes := range data.Nodes {
		total += len(nodes)
	}
	return total
}

func exportCmd() *cobra.Command {
	var conversationID, turnsPath, title, outPath string
	var dropLastAssistant, preview bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Compose a markdown transcript from a turns file",
		Long:  "Compose the markdown transcript for a conversation from the extractor's turns JSON file, without recording any fork nodes. Useful for inspecting what a fork would seed.",
		Example: `  forkline export --conversation conv-a --turns turns.json
  forkline export --conversation conv-a --turns turns.json --preview
  forkline export --conversation conv-a --turns turns.json --drop-last-assistant -o transcript.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			turns, err := loadTurns(turnsPath)
			if err != nil {
				return err
			}

			heading := title
			if heading == "" {
				heading = conversationID
			}
			md := transcript.BuildMarkdown(heading, turns, dropLastAssistant)
			if md == "" {
				ui.EmptyState("Turns file contains no turns.")
				return nil
			}

			if preview {
				ui.RenderMarkdown(os.Stderr, md, 0)
				return nil
			}
			if outPath != "" {
				if err := os.WriteFile(outPath, []byte(md), 0644); err != nil {
					return fmt.Errorf("failed to write transcript: %w", err)
				}
				ui.Success(fmt.Sprintf("Exported to %s", outPath))
				return nil
			}
			fmt.Print(md)
			return nil
		},
	}
	cmd.Flags().StringVar(&conversationID, "conversation", "", "Conversation id (used as the heading when --title is absent)")
	cmd.Flags().StringVar(&turnsPath, "turns", "", "Path to the turns JSON file")
	cmd.Flags().StringVar(&title, "title", "", "Transcript heading")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().BoolVar(&dropLastAssistant, "drop-last-assistant", false, "Drop the final turn's assistant text")
	cmd.Flags().BoolVar(&preview, "preview", false, "Render the transcript in the terminal")
	_ = cmd.MarkFlagRequired("conversation")
	_ = cmd.MarkFlagRequired("turns")
	return cmd
}

func removeCmd() *cobra.Command {
	var conversationID, turn, group string
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a recorded branch link",
		Long:  "Remove one recorded fork node. This prunes the link only; the linked conversation itself is untouched. Legacy turn ids are matched after normalization.",
		Example: `  forkline remove --conversation conv-a --turn 3 --group 1a2b3c
  forkline remove --conversation conv-a --turn u-3 --group 1a2b3c --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore()
			if err != nil {
				return err
			}

			turnID := resolveTurnID(turn)
			if !yes {
				proceed, err := ui.Confirm(fmt.Sprintf("Remove branch link at %s turn %s?", conversationID, turnID))
				if err != nil {
					return err
				}
				if !proceed {
					ui.Info("Cancelled.")
					return nil
				}
			}

			removed, err := s.RemoveForkNode(conversationID, turnID, group)
			if err != nil {
				return err
			}
			if !removed {
				ui.Warning("No matching branch link found.")
				return nil
			}
			ui.Success("Branch link removed")
			return nil
		},
	}
	cmd.Flags().StringVar(&conversationID, "conversation", "", "Conversation that owns the node")
	cmd.Flags().StringVar(&turn, "turn", "", "Turn of the recorded link (number or stable id)")
	cmd.Flags().StringVar(&group, "group", "", "Fork group the link belongs to")
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip confirmation prompt")
	_ = cmd.MarkFlagRequired("conversation")
	_ = cmd.MarkFlagRequired("turn")
	_ = cmd.MarkFlagRequired("group")
	return cmd
}

func pruneCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "prune <conversation-id>",
		Short: "Drop branch links whose conversations no longer exist",
		Long: `Probe the URL of every branch linked to a conversation and remove the
nodes whose conversations are definitively gone (HTTP 404/410). Nodes
without a URL, and nodes whose existence cannot be determined, are kept.`,
		Example: `  forkline prune conv-a
  forkline prune conv-a --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore()
			if err != nil {
				return err
			}

			data, err := s.LoadForkNodes()
			if err != nil {
				return err
			}

			nodes := forkgraph.DisplayForConversation(data, args[0], "")
			if len(nodes) == 0 {
				ui.EmptyState("No branches recorded for this conversation.")
				return nil
			}

			cache := verify.NewCache(time.Duration(s.Config.Verify.TTLSeconds)*time.Second, nil)
			prober := &verify.HTTPProber{
				Client:  http.DefaultClient,
				Timeout: time.Duration(s.Config.Verify.TimeoutSeconds) * time.Second,
			}

			var gone []forkgraph.ForkNode
			for _, n := range nodes {
				if n.ConversationURL == "" {
					continue
				}
				ui.Status(fmt.Sprintf("Checking %s...", n.ConversationID))
				if !cache.Exists(cmd.Context(), prober, n.ConversationURL) {
					gone = append(gone, n)
				}
			}

			if len(gone) == 0 {
				ui.Success("All linked conversations still exist")
				return nil
			}

			var rows [][]string
			for _, n := range gone {
				rows = append(rows, []string{n.ConversationID, n.TurnID, n.ForkGroupID})
			}
			ui.Table([]string{"CONVERSATION", "TURN", "GROUP"}, rows)

			if !yes {
				proceed, err := ui.Confirm(fmt.Sprintf("Remove these %d dead link(s)?", len(gone)))
				if err != nil {
					return err
				}
				if !proceed {
					ui.Info("Cancelled.")
					return nil
				}
			}

			removed := 0
			for _, n := range gone {
				ok, err := s.RemoveForkNode(n.ConversationID, n.TurnID, n.ForkGroupID)
				if err != nil {
					ui.Warning(fmt.Sprintf("Failed to remove %s: %v", n.ConversationID, err))
					continue
				}
				if ok {
					removed++
				}
			}
			ui.Success(fmt.Sprintf("Pruned %d dead link(s)", removed))
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip confirmation prompt")
	return cmd
}

func doctorCmd() *cobra.Command {
	var fix bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check health of the forkline store",
		RunE: func(cmd *cobra.Command, args []string) error {
			home := store.Home()

			if _, err := store.Load(home); err != nil {
				return fmt.Errorf("forkline not initialized — run 'forkline init' first: %w", err)
			}

			if fix {
				ui.SectionHeader("Doctor — repair mode")
				fixed := store.FixIssues(home)
				for _, f := range fixed {
					ui.Success(fmt.Sprintf("[FIXED] %s", f))
				}
				if len(fixed) == 0 {
					ui.EmptyState("Nothing to fix.")
				}
			} else {
				ui.SectionHeader("Doctor — health check")
			}

			issues := store.CheckHealth(home)
			issues = append(issues, store.CheckIndexIntegrity(home)...)

			if len(issues) == 0 {
				ui.Success("Everything looks good")
				os.Exit(0)
			}

			hasError := false
			for _, issue := range issues {
				if issue.Severity == "error" {
					ui.Error(fmt.Sprintf("[ERR]  %s", issue.Message))
					hasError = true
				} else {
					ui.Warning(fmt.Sprintf("[WARN] %s", issue.Message))
				}
			}

			if hasError {
				os.Exit(2)
			}
			os.Exit(1)
			return nil
		},
	}
	cmd.Flags().BoolVar(&fix, "fix", false, "Repair missing directories, a missing config, and a drifted groups index")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and edit forkline configuration",
	}
	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configSetCmd())
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore()
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(s.Config)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Print(string(data))
			return nil
		},
	}
}

func configSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long:  "Set a forkline configuration value. Valid keys: language, remote.snapshot_path, verify.ttl_seconds, verify.timeout_seconds.",
		Example: `  forkline config set language zh-CN
  forkline config set remote.snapshot_path /mnt/share/forkline.json
  forkline config set verify.ttl_seconds 600`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore()
			if err != nil {
				return err
			}
			if err := s.SetConfigValue(args[0], args[1]); err != nil {
				return err
			}
			ui.Success(fmt.Sprintf("Set %s = %s", args[0], args[1]))
			return nil
		},
	}
}

func completionCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "completion [bash|zsh|fish]",
		Short:     "Generate shell completion scripts",
		Long:      "Generate shell completion scripts for bash, zsh, or fish. Output the script to stdout for sourcing in your shell profile.",
		Example:   "  forkline completion bash > ~/.bashrc.d/forkline\n  forkline completion zsh > ~/.zfunc/_forkline\n  forkline completion fish > ~/.config/fish/completions/forkline.fish",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			default:
				return fmt.Errorf("unsupported shell: %s (use bash, zsh, or fish)", args[0])
			}
		},
	}
}

func mcpServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "mcp-serve",
		Short:  "Run forkline as an MCP server",
		Long:   "Start forkline as a Model Context Protocol (MCP) server over stdio. This lets agent hosts resolve fork plans, record and remove branch links, and compose fork transcripts directly.",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore()
			if err != nil {
				return err
			}

			server := forklinemcp.NewServer(s, version)
			return server.Run(context.Background())
		},
	}
}
