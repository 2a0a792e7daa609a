package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bloomday/gala/internal/cli/api"
	"github.com/bloomday/gala/internal/cli/config"
	"github.com/bloomday/gala/internal/cli/prompter"
	"github.com/bloomday/gala/internal/feed"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var browsePageSize int

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the gallery, newest first",
	Long: `Page through the shared gallery. Each press of Enter loads the
next page until the feed ends, like scrolling to the bottom of the
web gallery.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		pageSize := browsePageSize
		if pageSize <= 0 {
			pageSize = config.GetInt("feed.page_size")
		}

		paginator := feed.NewPaginator(api.NewStore(), pageSize)
		shown := 0
		paginator.Subscribe(func() {
			items := paginator.Items()
			for _, item := range items[shown:] {
				printItem(item)
			}
			shown = len(items)
		})

		ctx := context.Background()
		if err := paginator.LoadFirstPage(ctx); err != nil {
			return err
		}
		if shown == 0 {
			fmt.Println("The gallery is empty so far. Be the first: gala upload <file>")
			return nil
		}

		// Without a terminal there is nobody to press Enter
		interactive := term.IsTerminal(int(os.Stdin.Fd()))
		for paginator.HasMore() && interactive {
			more, err := prompter.PromptConfirm("Load more?")
			if err != nil || !more {
				return err
			}
			if _, err := paginator.TryLoadNext(ctx); err != nil {
				return err
			}
		}
		if !paginator.HasMore() {
			color.HiBlack("-- end of the gallery --")
		}
		return nil
	},
}

var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Share photos with everyone",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		for _, path := range args {
			item, err := api.UploadPhoto(path)
			if err != nil {
				return fmt.Errorf("upload %s: %w", filepath.Base(path), err)
			}
			color.Green("Shared %s", item.Name)
		}
		return nil
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download <name>",
	Short: "Save a photo's original file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		name := args[0]
		data, err := api.DownloadPhoto(name)
		if err != nil {
			return err
		}

		dir := config.GetString("output.download_dir")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		dest := filepath.Join(dir, name)
		if err := os.WriteFile(dest, data, 0644); err != nil {
			return err
		}

		fmt.Printf("Saved %s\n", dest)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove a photo you uploaded",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		ok, err := prompter.PromptConfirm(fmt.Sprintf("Delete %s for everyone?", args[0]))
		if err != nil || !ok {
			return err
		}

		if err := api.DeletePhoto(args[0]); err != nil {
			if api.IsForbidden(err) {
				return fmt.Errorf("only the uploader or the host can delete a photo")
			}
			return err
		}
		fmt.Println("Deleted.")
		return nil
	},
}

func printItem(item feed.Item) {
	color.Cyan(item.Name)
	fmt.Printf("  %s  %s\n", humanSize(item.Size), item.UploadedAt.Local().Format("Jan 2 15:04"))
	color.HiBlack("  %s", item.URL)
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func init() {
	browseCmd.Flags().IntVar(&browsePageSize, "page-size", 0, "Photos per page (default from config)")
}
