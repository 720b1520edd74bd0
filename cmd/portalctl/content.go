package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sunrise-classroom/content-portal/internal/catalog"
)

func newListCmd(a *app) *cobra.Command {
	var (
		query, class, subject, fileType string
		asJSON                          bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List classroom content",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Refresh(cmd.Context()); err != nil {
				return err
			}
			items := a.store.Filter(catalog.Criteria{
				Query:    query,
				Class:    class,
				Subject:  subject,
				FileType: fileType,
			})
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TITLE\tCLASS\tSUBJECT\tTYPE\tUPLOADED\tPUBLIC ID")
			for _, it := range items {
				m := it.Meta()
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					it.DisplayTitle(), m.ClassName, m.Subject, m.FileType,
					it.CreatedAt.Format("2006-01-02"), it.PublicID)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&query, "query", "", "title substring, case-insensitive")
	cmd.Flags().StringVar(&class, "class", "", "exact class name")
	cmd.Flags().StringVar(&subject, "subject", "", "exact subject")
	cmd.Flags().StringVar(&fileType, "type", "", "exact file type")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of a table")
	return cmd
}

func newUploadCmd(a *app) *cobra.Command {
	var meta catalog.Metadata
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file with its annotation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			if meta.Title == "" || meta.Teacher == "" {
				return fmt.Errorf("--title and --teacher are required")
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if meta.FileType == "" {
				meta.FileType = fileTypeFor(args[0])
			}
			item, err := a.store.Create(cmd.Context(), filepath.Base(args[0]), data, meta)
			if err != nil {
				return err
			}
			fmt.Println(item.PublicID)
			return nil
		},
	}
	cmd.Flags().StringVar(&meta.Title, "title", "", "content title")
	cmd.Flags().StringVar(&meta.Teacher, "teacher", "", "teacher name")
	cmd.Flags().StringVar(&meta.Subject, "subject", "", "subject")
	cmd.Flags().StringVar(&meta.ClassName, "class", "", "class name")
	cmd.Flags().StringVar(&meta.Description, "description", "", "description")
	cmd.Flags().StringVar(&meta.FileType, "file-type", "", "file type label (auto-detected from the extension when empty)")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var next catalog.Metadata
	cmd := &cobra.Command{
		Use:   "edit <public-id>",
		Short: "Rewrite an item's annotation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			if err := a.store.Refresh(cmd.Context()); err != nil {
				return err
			}
			item, ok := a.store.Item(args[0])
			if !ok {
				return fmt.Errorf("no item with public id %q", args[0])
			}

			// Start from the current annotation and apply only the
			// flags that were set; the backend always receives the
			// full six fields.
			meta := item.Meta()
			apply := map[string]*string{
				"title":       &meta.Title,
				"teacher":     &meta.Teacher,
				"subject":     &meta.Subject,
				"class":       &meta.ClassName,
				"description": &meta.Description,
				"file-type":   &meta.FileType,
			}
			src := map[string]string{
				"title":       next.Title,
				"teacher":     next.Teacher,
				"subject":     next.Subject,
				"class":       next.ClassName,
				"description": next.Description,
				"file-type":   next.FileType,
			}
			for name, dst := range apply {
				if cmd.Flags().Changed(name) {
					*dst = src[name]
				}
			}
			return a.store.Update(cmd.Context(), item.PublicID, item.ResourceType, meta)
		},
	}
	cmd.Flags().StringVar(&next.Title, "title", "", "content title")
	cmd.Flags().StringVar(&next.Teacher, "teacher", "", "teacher name")
	cmd.Flags().StringVar(&next.Subject, "subject", "", "subject")
	cmd.Flags().StringVar(&next.ClassName, "class", "", "class name")
	cmd.Flags().StringVar(&next.Description, "description", "", "description")
	cmd.Flags().StringVar(&next.FileType, "file-type", "", "file type label")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <public-id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a); err != nil {
				return err
			}
			if err := a.store.Refresh(cmd.Context()); err != nil {
				return err
			}
			item, ok := a.store.Item(args[0])
			if !ok {
				return fmt.Errorf("no item with public id %q", args[0])
			}
			if !yes {
				answer := prompt(fmt.Sprintf("Delete %q? [y/N] ", item.DisplayTitle()))
				if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
					fmt.Println("Aborted.")
					return nil
				}
			}
			return a.store.Delete(cmd.Context(), item.PublicID, item.ResourceType)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// fileTypeFor maps a filename extension to the portal's coarse type
// labels used in the annotation and the filter dropdowns.
func fileTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "PDF"
	case ".mp4", ".webm", ".mov", ".avi", ".mkv":
		return "Video"
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return "Image"
	case ".ppt", ".pptx":
		return "PPT"
	default:
		return "Other"
	}
}
