package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verdra/cadesk/internal/api"
	"github.com/verdra/cadesk/internal/models"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <user-id> <file>",
	Short: "Upload a KYC document to a user's onboarding file",
	Args:  cobra.ExactArgs(2),
	RunE:  runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().StringP("category", "c", string(models.CategoryOther),
		"Document category (identity, proof_of_address, company_extract, emission_permit, other)")
	uploadCmd.Flags().StringP("title", "t", "", "Document title (defaults to the file name)")
}

func runUpload(cmd *cobra.Command, args []string) error {
	userID, filePath := args[0], args[1]

	category, _ := cmd.Flags().GetString("category")
	if !models.IsValidCategory(models.DocumentCategory(category)) {
		return fmt.Errorf("invalid category %q", category)
	}
	title, _ := cmd.Flags().GetString("title")
	if title == "" {
		title = filePath
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	doc, err := client.UploadDocument(context.Background(), api.UploadRequest{
		UserID:   userID,
		Category: models.DocumentCategory(category),
		Title:    title,
		FilePath: filePath,
	})
	if err != nil {
		return err
	}

	fmt.Printf("uploaded %s (%s) as %s\n", doc.Title, doc.Category, doc.ID)
	return nil
}
