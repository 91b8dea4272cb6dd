package posts

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/scribeapp/scribe/cmd/cli/client"
	"github.com/scribeapp/scribe/cmd/cli/output"
	"github.com/scribeapp/scribe/cmd/cli/root"
	"github.com/scribeapp/scribe/internal/models"
	"github.com/spf13/cobra"
)

// ==========================
// CLI Command Init
// ==========================
func init() {
	postsCmd := &cobra.Command{
		Use:   "posts",
		Short: "Manage blog posts",
		Long:  "List, read, create, update, and delete blog posts.",
	}

	postsCmd.AddCommand(
		listPostsCmd(),
		getPostCmd(),
		createPostCmd(),
		updatePostCmd(),
		deletePostCmd(),
	)
	root.GetRoot().AddCommand(postsCmd)
}

// ==========================
// List Posts
// ==========================
func listPostsCmd() *cobra.Command {
	var category string
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/posts?limit=%d", limit)
			if category != "" {
				path += "&cat=" + category
			}

			var posts []models.Post
			if err := client.Do("GET", path, nil, &posts); err != nil {
				return err
			}

			if asJSON {
				return json.NewEncoder(os.Stdout).Encode(posts)
			}

			rows := make([][]interface{}, 0, len(posts))
			for _, p := range posts {
				rows = append(rows, []interface{}{p.ID, p.Title, p.Category, p.Author, p.CreatedAt.Format("2006-01-02 15:04")})
			}
			output.RenderTable([]string{"ID", "Title", "Category", "Author", "Created"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "cat", "", "Filter by category")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of posts")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output raw JSON")

	return cmd
}

// ==========================
// Get Post
// ==========================
func getPostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid post id: %s", args[0])
			}

			var post models.Post
			if err := client.Do("GET", fmt.Sprintf("/posts/%d", id), nil, &post); err != nil {
				return err
			}

			fmt.Printf("#%d %s\n", post.ID, post.Title)
			fmt.Printf("by %s in %s on %s\n\n", post.Author, post.Category, post.CreatedAt.Format("2006-01-02"))
			fmt.Println(post.Content)
			if post.Image != "" {
				fmt.Printf("\n[image: %s]\n", post.Image)
			}
			return nil
		},
	}
}

// ==========================
// Create Post
// ==========================
func createPostCmd() *cobra.Command {
	var title, content, image, category string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]string{
				"title":    title,
				"content":  content,
				"image":    image,
				"category": category,
			}

			var post models.Post
			if err := client.Do("POST", "/posts", payload, &post); err != nil {
				return err
			}

			fmt.Printf("Post created with id %d\n", post.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Post title")
	cmd.Flags().StringVar(&content, "content", "", "Post body")
	cmd.Flags().StringVar(&image, "image", "", "Uploaded image filename")
	cmd.Flags().StringVar(&category, "cat", "", "Post category")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("content")

	return cmd
}

// ==========================
// Update Post
// ==========================
func updatePostCmd() *cobra.Command {
	var title, content, image, category string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update one of your posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid post id: %s", args[0])
			}

			payload := map[string]string{
				"title":    title,
				"content":  content,
				"image":    image,
				"category": category,
			}

			var post models.Post
			if err := client.Do("PUT", fmt.Sprintf("/posts/%d", id), payload, &post); err != nil {
				return err
			}

			fmt.Printf("Post %d updated\n", post.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Post title")
	cmd.Flags().StringVar(&content, "content", "", "Post body")
	cmd.Flags().StringVar(&image, "image", "", "Uploaded image filename")
	cmd.Flags().StringVar(&category, "cat", "", "Post category")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("content")

	return cmd
}

// ==========================
// Delete Post
// ==========================
func deletePostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid post id: %s", args[0])
			}

			if err := client.Do("DELETE", fmt.Sprintf("/posts/%d", id), nil, nil); err != nil {
				return err
			}

			fmt.Printf("Post %d deleted\n", id)
			return nil
		},
	}
}
