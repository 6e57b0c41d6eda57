package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/infrastructure-search/internal/bootstrap"
	"github.com/infrastructure-search/internal/config"
	"github.com/infrastructure-search/internal/pkg/errors"
	"github.com/infrastructure-search/internal/pkg/logger"
	"github.com/infrastructure-search/internal/pkg/utils"
	"github.com/infrastructure-search/internal/taxonomy"
	"github.com/infrastructure-search/internal/usecase"
	"github.com/infrastructure-search/internal/usecase/dto"
)

// newApp собирает CLI. Результаты печатаются в out как JSON, логи уходят в stderr.
func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "infrasearch",
		Usage: "Search OpenStreetMap infrastructure with natural language queries",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to .env configuration file",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "warn",
			},
		},
		Commands: []*cli.Command{
			searchCommand(out),
			parseCommand(out),
			geocodeCommand(out),
			typesCommand(out),
		},
	}
}

func searchCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Run a search and print the result",
		ArgsUsage: "<query>",
		Action: func(ctx context.Context, c *cli.Command) error {
			query := queryArg(c)

			components, log, err := build(c)
			if err != nil {
				return err
			}
			defer log.Sync()
			defer components.Close()

			result, err := components.SearchUC.Search(ctx, query)
			if err != nil {
				return printError(out, err)
			}
			return printJSON(out, result)
		},
	}
}

func parseCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Parse and validate a query without network calls",
		ArgsUsage: "<query>",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			tax, err := taxonomy.Open(cfg.Taxonomy.File)
			if err != nil {
				return fmt.Errorf("loading taxonomy: %w", err)
			}

			parsed := usecase.NewQueryParser(tax).Parse(queryArg(c))
			validation := usecase.ValidateQuery(parsed)

			return printJSON(out, dto.ParseResponse{
				Query:    parsed,
				Valid:    validation.Valid,
				Error:    validation.Error,
				CacheKey: usecase.SearchCacheKey(parsed),
			})
		},
	}
}

func geocodeCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "geocode",
		Usage:     "Resolve a place name",
		ArgsUsage: "<place>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "country",
				Usage: "ISO 3166-1 alpha-2 country code to restrict the lookup",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			components, log, err := build(c)
			if err != nil {
				return err
			}
			defer log.Sync()
			defer components.Close()

			place, err := components.SearchUC.Geocode(ctx, queryArg(c), c.String("country"))
			if err != nil {
				return printError(out, err)
			}
			return printJSON(out, place)
		},
	}
}

func typesCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "types",
		Usage: "List supported asset types",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			tax, err := taxonomy.Open(cfg.Taxonomy.File)
			if err != nil {
				return fmt.Errorf("loading taxonomy: %w", err)
			}

			types := make([]dto.AssetTypeResponse, 0, len(tax.Types()))
			for _, t := range tax.Types() {
				types = append(types, dto.AssetTypeResponse{Key: t.Key, Label: t.Label})
			}
			return printJSON(out, types)
		},
	}
}

func queryArg(c *cli.Command) string {
	return strings.Join(c.Args().Slice(), " ")
}

func loadConfig(c *cli.Command) (*config.Config, error) {
	cfg, err := config.LoadFile(c.String("env-file"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func build(c *cli.Command) (*bootstrap.Components, *zap.Logger, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.NewWithOutput(c.String("log-level"), "stderr")
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}

	components, err := bootstrap.Build(cfg, log, bootstrap.Options{})
	if err != nil {
		return nil, nil, err
	}
	return components, log, nil
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printError печатает ошибку в том же виде, что и HTTP API, и завершает команду с кодом 1
func printError(out io.Writer, err error) error {
	resp := utils.ErrorResponse{Error: errors.ErrInternal.Message, Code: errors.ErrInternal.Code}
	if appErr, ok := errors.AsAppError(err); ok {
		resp = utils.ErrorResponse{Error: appErr.Message, Code: appErr.Code}
	}
	if perr := printJSON(out, resp); perr != nil {
		return perr
	}
	return cli.Exit(err.Error(), 1)
}
