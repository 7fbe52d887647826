package main

import (
	"context"
	"fmt"
	"time"

	"conceptlab/internal/app"
	"conceptlab/internal/model"
	"conceptlab/internal/panel"
	"conceptlab/internal/repository"
	"conceptlab/internal/service"

	"github.com/spf13/cobra"
)

func init() {
	seedCmd.Flags().String("personas", "", "persona panel file (json or yaml)")
	seedCmd.Flags().String("concepts", "", "concept library file (json or yaml)")
	seedCmd.Flags().Int("synthetic", 0, "add N synthetic personas")
	seedCmd.Flags().Int("synthetic-concepts", 0, "add N synthetic concepts")
	seedCmd.Flags().Int64("seed", 1, "seed for synthetic data")
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the persona panel and concept library into MongoDB",
	Long: `Upserts personas and concepts. Re-seeding a concept bumps its version;
re-seeding a persona replaces it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		personasPath, _ := cmd.Flags().GetString("personas")
		conceptsPath, _ := cmd.Flags().GetString("concepts")
		synthetic, _ := cmd.Flags().GetInt("synthetic")
		syntheticConcepts, _ := cmd.Flags().GetInt("synthetic-concepts")
		seed, _ := cmd.Flags().GetInt64("seed")

		var personas []model.Persona
		var concepts []model.Concept
		if personasPath != "" {
			loaded, err := readPersonas(personasPath)
			if err != nil {
				return err
			}
			personas = append(personas, loaded...)
		}
		if conceptsPath != "" {
			loaded, err := readConcepts(conceptsPath)
			if err != nil {
				return err
			}
			concepts = append(concepts, loaded...)
		}
		gen := panel.NewGenerator(seed)
		personas = append(personas, gen.Personas(synthetic)...)
		concepts = append(concepts, gen.Concepts(syntheticConcepts)...)
		if len(personas) == 0 && len(concepts) == 0 {
			return fmt.Errorf("nothing to seed: pass --personas, --concepts or --synthetic")
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		client, err := app.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return err
		}
		defer client.Disconnect(context.Background())

		db := client.Database(cfg.MongoDB)
		catalog := service.NewCatalogService(repository.NewPersonaRepo(db), repository.NewConceptRepo(db))
		return seedCatalog(ctx, cmd, catalog, personas, concepts)
	},
}

func seedCatalog(ctx context.Context, cmd *cobra.Command, catalog *service.CatalogService, personas []model.Persona, concepts []model.Concept) error {
	if len(personas) > 0 {
		n, err := catalog.UpsertPersonas(ctx, personas)
		if err != nil {
			return fmt.Errorf("seed personas: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "personas: %d upserted\n", n)
	}
	for i := range concepts {
		saved, err := catalog.UpsertConcept(ctx, &concepts[i])
		if err != nil {
			return fmt.Errorf("seed concept %q: %w", concepts[i].ID, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "concept %s (%s) at version %d\n", saved.ID, saved.Name, saved.Version)
	}
	return nil
}
