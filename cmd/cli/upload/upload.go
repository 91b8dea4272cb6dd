package upload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/scribeapp/scribe/cmd/cli/config"
	"github.com/scribeapp/scribe/cmd/cli/root"
	"github.com/spf13/cobra"
)

func init() {
	root.GetRoot().AddCommand(uploadCmd())
}

func uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an image",
		Long:  "Upload an image file and print the stored filename, for use with posts create --image.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			var buf bytes.Buffer
			mw := multipart.NewWriter(&buf)
			part, err := mw.CreateFormFile("file", filepath.Base(args[0]))
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, f); err != nil {
				return err
			}
			if err := mw.Close(); err != nil {
				return err
			}

			req, err := http.NewRequest("POST", config.APIURL()+"/upload", &buf)
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", mw.FormDataContentType())
			if token := config.LoadToken(); token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
			}

			var result struct {
				Filename string `json:"filename"`
			}
			if err := json.Unmarshal(body, &result); err != nil {
				return err
			}

			fmt.Println(result.Filename)
			return nil
		},
	}
}
