package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/DaoSolary/Desaparecidos/pkg/cli/config"
	"github.com/DaoSolary/Desaparecidos/pkg/domain/model"
	"github.com/DaoSolary/Desaparecidos/pkg/domain/types"
	"github.com/DaoSolary/Desaparecidos/pkg/usecase"
	"github.com/DaoSolary/Desaparecidos/pkg/utils/logging"
)

// exportRow is one JSONL line: a pair joined with its case records
type exportRow struct {
	PairID          string      `json:"pairId"`
	Status          string      `json:"status"`
	SimilarityScore float64     `json:"similarityScore"`
	DetectedBy      string      `json:"detectedBy,omitempty"`
	DetectedAt      time.Time   `json:"detectedAt"`
	ResolvedBy      string      `json:"resolvedBy,omitempty"`
	ResolvedAt      *time.Time  `json:"resolvedAt,omitempty"`
	ResolutionNotes string      `json:"resolutionNotes,omitempty"`
	FirstCase       *exportCase `json:"firstCase,omitempty"`
	SecondCase      *exportCase `json:"secondCase,omitempty"`
}

type exportCase struct {
	ID          int64      `json:"id"`
	FullName    string     `json:"fullName"`
	Age         *int       `json:"age,omitempty"`
	MissingDate *time.Time `json:"missingDate,omitempty"`
	Province    string     `json:"province,omitempty"`
	Status      string     `json:"status"`
}

func cmdExport() *cli.Command {
	var output string
	var statusFilter string
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Destination ('-' for stdout, a file path, or a gs:// object)",
			Value:       "-",
			Sources:     cli.EnvVars("DESAPARECIDOS_EXPORT_OUTPUT"),
			Destination: &output,
		},
		&cli.StringFlag{
			Name:        "status",
			Usage:       "Restrict the export to one pair status (PENDING, CONFIRMED, REJECTED, RESOLVED)",
			Destination: &statusFilter,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "export",
		Aliases: []string{"e"},
		Usage:   "Export detected pairs with case summaries as JSONL",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			var status *types.PairStatus
			if statusFilter != "" {
				parsed, err := types.ParsePairStatus(statusFilter)
				if err != nil {
					return goerr.Wrap(err, "invalid status filter")
				}
				status = &parsed
			}

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo)
			details, err := uc.Duplicates.ListPairs(ctx, status)
			if err != nil {
				return goerr.Wrap(err, "failed to load pairs")
			}

			sink, err := openExportSink(ctx, output)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(sink)
			for _, d := range details {
				if err := enc.Encode(toExportRow(d)); err != nil {
					_ = sink.Close()
					return goerr.Wrap(err, "failed to encode pair", goerr.V(model.PairIDKey, d.Pair.ID))
				}
			}

			// The GCS writer commits the object on Close, so a close error
			// means the export did not land
			if err := sink.Close(); err != nil {
				return goerr.Wrap(err, "failed to finalize export", goerr.V("output", output))
			}

			logging.Default().Info("Export completed", "output", output, "pairs", len(details))
			return nil
		},
	}
}

func toExportRow(d *usecase.PairDetail) *exportRow {
	return &exportRow{
		PairID:          d.Pair.ID.String(),
		Status:          d.Pair.Status.String(),
		SimilarityScore: d.Pair.SimilarityScore,
		DetectedBy:      d.Pair.DetectedBy,
		DetectedAt:      d.Pair.DetectedAt,
		ResolvedBy:      d.Pair.ResolvedBy,
		ResolvedAt:      d.Pair.ResolvedAt,
		ResolutionNotes: d.Pair.ResolutionNotes,
		FirstCase:       toExportCase(d.FirstCase),
		SecondCase:      toExportCase(d.SecondCase),
	}
}

func toExportCase(c *model.Case) *exportCase {
	if c == nil {
		return nil
	}
	return &exportCase{
		ID:          c.ID,
		FullName:    c.FullName,
		Age:         c.Age,
		MissingDate: c.MissingDate,
		Province:    c.Province,
		Status:      c.Status.String(),
	}
}

// openExportSink opens the destination for writing. The returned closer
// finalizes the export.
func openExportSink(ctx context.Context, dest string) (io.WriteCloser, error) {
	if dest == "" || dest == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}

	if strings.HasPrefix(dest, "gs://") {
		bucket, object, ok := parseGCSPath(dest)
		if !ok {
			return nil, goerr.New("gs:// output must name a bucket and an object", goerr.V("output", dest))
		}

		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create storage client")
		}

		w := client.Bucket(bucket).Object(object).NewWriter(ctx)
		w.ContentType = "application/x-ndjson"
		return &gcsSink{Writer: w, client: client}, nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	f, err := os.Create(dest)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create export file", goerr.V("output", dest))
	}
	return f, nil
}

func parseGCSPath(dest string) (bucket, object string, ok bool) {
	trimmed := strings.TrimPrefix(dest, "gs://")
	bucket, object, found := strings.Cut(trimmed, "/")
	if !found || bucket == "" || object == "" {
		return "", "", false
	}
	return bucket, object, true
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// gcsSink closes the object writer before the client; the writer upload
// only commits once it is closed
type gcsSink struct {
	*storage.Writer
	client *storage.Client
}

func (s *gcsSink) Close() error {
	werr := s.Writer.Close()
	if cerr := s.client.Close(); werr == nil {
		werr = cerr
	}
	return werr
}
