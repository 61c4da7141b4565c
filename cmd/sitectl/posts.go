package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/sovereignrcm/rcm-site/app/content"
	"github.com/sovereignrcm/rcm-site/app/report"
)

func newStore(cmd *cobra.Command) *content.Store {
	dir, _ := cmd.Flags().GetString("content-dir")
	return content.NewStore(dir, content.NewRenderer())
}

func postsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List blog posts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			posts, err := newStore(cmd).ListAll()
			if err != nil {
				return err
			}
			posts = content.SortByDateDescending(posts)

			if category, _ := cmd.Flags().GetString("category"); category != "" {
				if !content.Category(category).Valid() {
					return fmt.Errorf("unknown category %q", category)
				}
				posts = content.ByCategory(posts, content.Category(category))
			}

			if featured, _ := cmd.Flags().GetBool("featured"); featured {
				posts = content.Featured(posts)
			}

			if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 {
				posts = content.Recent(posts, limit)
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(cmd.OutOrStdout(), posts)
			}

			if len(posts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No posts found.")
				return nil
			}

			table := report.NewTable("DATE", "SLUG", "CATEGORY", "MIN", "TITLE").AlignRight(3)
			for _, post := range posts {
				title := post.Title
				if post.Featured {
					title = "* " + title
				}
				table.AddRow(
					post.Date.Format("2006-01-02"),
					post.Slug,
					post.Category.Label(),
					strconv.Itoa(post.ReadingTime),
					report.Truncate(title, 60),
				)
			}
			return table.Render(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringP("category", "c", "", "Filter by category key")
	cmd.Flags().Bool("featured", false, "Only featured posts")
	cmd.Flags().IntP("limit", "n", 0, "Maximum posts to show")

	return cmd
}

func postCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post [slug]",
		Short: "Show a single post with its outline and related posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := newStore(cmd)

			post, err := store.GetBySlug(args[0])
			if err != nil {
				return err
			}
			if post == nil {
				return fmt.Errorf("post %q not found", args[0])
			}

			posts, err := store.ListAll()
			if err != nil {
				return err
			}
			relatedCount, _ := cmd.Flags().GetInt("related")
			related := content.Related(posts, post.Slug, post.Category, relatedCount)

			out := cmd.OutOrStdout()

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(out, map[string]interface{}{
					"post":    post,
					"related": related,
				})
			}

			fmt.Fprintf(out, "%s\n", post.Title)
			fmt.Fprintf(out, "%s · %s · %s · %d min read\n",
				post.Date.Format("January 2, 2006"), post.Author, post.Category.Label(), post.ReadingTime)
			fmt.Fprintf(out, "File: %s\n", post.SourcePath)

			if len(post.Headings) > 0 {
				fmt.Fprintln(out, "\nOutline:")
				for _, h := range post.Headings {
					indent := "  "
					if h.Level == 3 {
						indent = "    "
					}
					fmt.Fprintf(out, "%s%s (#%s)\n", indent, h.Text, h.ID)
				}
			}

			if len(related) > 0 {
				fmt.Fprintln(out, "\nRelated:")
				for _, r := range related {
					fmt.Fprintf(out, "  %s  %s\n", r.Slug, r.Title)
				}
			}

			if showHTML, _ := cmd.Flags().GetBool("html"); showHTML {
				fmt.Fprintf(out, "\n%s\n", post.Content)
			}

			return nil
		},
	}

	cmd.Flags().Bool("html", false, "Print rendered HTML")
	cmd.Flags().Int("related", 3, "Number of related posts")

	return cmd
}

// checkCmd validates every post, for use before deploying content changes.
func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate front-matter of every post and report duplicate slugs",
		RunE: func(cmd *cobra.Command, args []string) error {
			posts, err := newStore(cmd).ListAll()
			if err != nil {
				return err
			}

			seen := make(map[string]string, len(posts))
			var duplicates []string
			for _, post := range posts {
				if first, ok := seen[post.Slug]; ok {
					duplicates = append(duplicates, fmt.Sprintf("%s (%s, %s)", post.Slug, first, post.SourcePath))
					continue
				}
				seen[post.Slug] = post.SourcePath
			}

			if len(duplicates) > 0 {
				return fmt.Errorf("duplicate slugs: %v", duplicates)
			}

			table := report.NewTable("CATEGORY", "POSTS").AlignRight(1)
			for _, count := range content.CategoryCounts(posts) {
				table.AddRow(count.Label, strconv.Itoa(count.Count))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d posts OK\n\n", len(posts))
			return table.Render(cmd.OutOrStdout())
		},
	}
}
