package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"advocate_diary_go/services"

	"github.com/spf13/cobra"
)

var (
	userName  string
	userEmail string
	userID    int64
	filePath  string
	caseID    int64
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage diary users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if userName == "" && userEmail == "" {
			return fmt.Errorf("name or email is required")
		}

		ctx := cmd.Context()
		users := services.NewUserService(manager)
		id, err := users.CreateUser(ctx, optional(userName), optional(userEmail))
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		fmt.Printf("Created user %d\n", id)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a user's cases to an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		buf, err := services.NewCaseService(manager).ExportCasesXLSX(ctx, userID)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filePath, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", filePath, err)
		}
		fmt.Printf("Exported cases of user %d to %s\n", userID, filePath)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import cases for a user from an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.Open(filePath)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", filePath, err)
		}
		defer file.Close()

		ctx := cmd.Context()
		result, err := services.NewCaseService(manager).ImportCasesXLSX(ctx, file, userID)
		if err != nil {
			return err
		}

		fmt.Printf("Processed %d rows: %d imported, %d failed\n", result.TotalProcessed, result.SuccessCount, result.FailedCount)
		for _, msg := range result.Errors {
			fmt.Println("  " + msg)
		}
		return nil
	},
}

var attachCmd = &cobra.Command{
	Use:   "attach",
	Short: "Copy a file into document storage and attach it to a case",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store := services.InitializeStorage(cfg)
		documents := services.NewDocumentManager(services.NewDocumentService(manager), store)

		var uploader *int64
		if userID > 0 {
			uploader = &userID
		}
		doc, err := documents.Attach(ctx, services.AttachInput{
			CaseID:           caseID,
			SourceURI:        filePath,
			OriginalFileName: filepath.Base(filePath),
			UserID:           uploader,
		})
		if err != nil {
			return err
		}

		log.Printf("[STORAGE] Attached %s to case %d as document %d", doc.OriginalDisplayName, caseID, doc.ID)
		return nil
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&userName, "name", "", "display name")
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "email address")
	userCmd.AddCommand(userCreateCmd)

	for _, c := range []*cobra.Command{exportCmd, importCmd} {
		c.Flags().Int64Var(&userID, "user", 0, "owner user id")
		c.Flags().StringVar(&filePath, "file", "", "workbook path")
		c.MarkFlagRequired("user")
		c.MarkFlagRequired("file")
	}

	attachCmd.Flags().Int64Var(&caseID, "case", 0, "case id")
	attachCmd.Flags().Int64Var(&userID, "user", 0, "uploader user id")
	attachCmd.Flags().StringVar(&filePath, "file", "", "file to attach")
	attachCmd.MarkFlagRequired("case")
	attachCmd.MarkFlagRequired("file")
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
