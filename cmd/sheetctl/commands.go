// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	serverURL string
	outFile   string

	rootCmd = &cobra.Command{
		Use:   "sheetctl",
		Short: "A cli to administer a running AleutianGrid sheet service",
		Long: `sheetctl drives the HTTP surface of the collaborative grid
service: document reset and title, saved snapshots, and CSV/XLSX
import and export.`,
	}

	// --- Document ---
	getCmd = &cobra.Command{
		Use:   "get",
		Short: "Print a summary of the current document",
		RunE:  runGet,
	}
	resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Reset the document to the empty default extent",
		RunE:  runReset,
	}
	titleCmd = &cobra.Command{
		Use:   "title [new title]",
		Short: "Update the document title",
		Args:  cobra.ExactArgs(1),
		RunE:  runTitle,
	}
	usersCmd = &cobra.Command{
		Use:   "users",
		Short: "List the active collaborators",
		RunE:  runUsers,
	}

	// --- Snapshots ---
	snapshotCmd = &cobra.Command{
		Use:   "snapshot",
		Short: "Manage saved snapshots of the document",
	}
	snapshotSaveCmd = &cobra.Command{
		Use:   "save [name]",
		Short: "Save the current document under a name",
		Args:  cobra.ExactArgs(1),
		RunE:  runSnapshotSave,
	}
	snapshotLoadCmd = &cobra.Command{
		Use:   "load [name]",
		Short: "Replace the document from a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  runSnapshotLoad,
	}
	snapshotListCmd = &cobra.Command{
		Use:   "list",
		Short: "List saved snapshots",
		RunE:  runSnapshotList,
	}
	snapshotDeleteCmd = &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  runSnapshotDelete,
	}

	// --- Import / Export ---
	exportCmd = &cobra.Command{
		Use:       "export [csv|xlsx]",
		Short:     "Export the document to stdout or --out",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"csv", "xlsx"},
		RunE:      runExport,
	}
	importCmd = &cobra.Command{
		Use:       "import [csv|xlsx] [file]",
		Short:     "Replace the document from a local file",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"csv", "xlsx"},
		RunE:      runImport,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "",
		"Base URL of the sheet service (overrides sheetctl.yaml)")
	exportCmd.Flags().StringVar(&outFile, "out", "", "Write output to a file instead of stdout")

	snapshotCmd.AddCommand(snapshotSaveCmd, snapshotLoadCmd, snapshotListCmd, snapshotDeleteCmd)
	rootCmd.AddCommand(getCmd, resetCmd, titleCmd, usersCmd, snapshotCmd, exportCmd, importCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	grid, err := newClient().GetSheet()
	if err != nil {
		return err
	}
	fmt.Printf("Title:    %s\n", grid.Metadata.Title)
	fmt.Printf("Extent:   %d columns x %d rows\n", grid.Columns, grid.Rows)
	fmt.Printf("Occupied: %d cells\n", len(grid.Cells))
	fmt.Printf("Modified: %s\n", grid.Metadata.LastModified)
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	if err := newClient().Reset(); err != nil {
		return err
	}
	fmt.Println("Document reset.")
	return nil
}

func runTitle(cmd *cobra.Command, args []string) error {
	if err := newClient().SetTitle(args[0]); err != nil {
		return err
	}
	fmt.Printf("Title updated to %q.\n", args[0])
	return nil
}

func runUsers(cmd *cobra.Command, args []string) error {
	users, err := newClient().Users()
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Println("No active collaborators.")
		return nil
	}
	for _, u := range users {
		cell := u.CurrentCell
		if cell == "" {
			cell = "-"
		}
		fmt.Printf("%s  %s  color=%s  cell=%s\n", u.UserID, u.Name, u.Color, cell)
	}
	return nil
}

func runSnapshotSave(cmd *cobra.Command, args []string) error {
	if err := newClient().SaveSnapshot(args[0]); err != nil {
		return err
	}
	fmt.Printf("Snapshot %q saved.\n", args[0])
	return nil
}

func runSnapshotLoad(cmd *cobra.Command, args []string) error {
	if err := newClient().LoadSnapshot(args[0]); err != nil {
		return err
	}
	fmt.Printf("Snapshot %q loaded.\n", args[0])
	return nil
}

func runSnapshotList(cmd *cobra.Command, args []string) error {
	infos, err := newClient().ListSnapshots()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("No saved snapshots.")
		return nil
	}
	for _, info := range infos {
		fmt.Printf("%-32s  %-24q  %8d bytes  %s\n",
			info.Name, info.Title, info.SizeBytes, info.LastModified)
	}
	return nil
}

func runSnapshotDelete(cmd *cobra.Command, args []string) error {
	if err := newClient().DeleteSnapshot(args[0]); err != nil {
		return err
	}
	fmt.Printf("Snapshot %q deleted.\n", args[0])
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	data, err := newClient().Export(args[0])
	if err != nil {
		return err
	}
	if outFile == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outFile, data, 0644); err != nil {
		return err
	}
	fmt.Printf("Exported %d bytes to %s.\n", len(data), outFile)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}
	if err := newClient().Import(args[0], data); err != nil {
		return err
	}
	fmt.Printf("Imported %s.\n", args[1])
	return nil
}
