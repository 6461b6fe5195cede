package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/plantnet/config"
	"github.com/shashiranjanraj/plantnet/database/indexes"
	"github.com/shashiranjanraj/plantnet/database/seeders"
	"github.com/shashiranjanraj/plantnet/pkg/database"

	"go.mongodb.org/mongo-driver/mongo"
)

// bootDB loads config and opens the database connection.
func bootDB(ctx context.Context) (*mongo.Client, *mongo.Database, error) {
	if err := config.Load(); err != nil {
		return nil, nil, err
	}
	client, err := database.Connect(ctx)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Database(config.MongoDB()), nil
}

// plantnet seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, db, err := bootDB(ctx)
		if err != nil {
			return err
		}
		defer database.Disconnect(client)

		fmt.Println("Running seeders…")
		return seeders.RunAll(ctx, db)
	},
}

// plantnet db:index
var indexCmd = &cobra.Command{
	Use:   "db:index",
	Short: "Create the MongoDB indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, db, err := bootDB(ctx)
		if err != nil {
			return err
		}
		defer database.Disconnect(client)

		fmt.Println("Creating indexes…")
		return indexes.Ensure(ctx, db)
	},
}
