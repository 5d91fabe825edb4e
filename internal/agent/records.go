package agent

import (
	"context"

	"golang.org/x/sync/errgroup"

	dErrors "persona/pkg/domain-errors"
)

// decryptConcurrency bounds parallel decrypt calls against the agent.
const decryptConcurrency = 4

// FetchStampRecords retrieves the holder's records for a program, degrading by
// capability: agents that can return plaintexts directly are asked to; agents
// that only hold ciphertexts have each record decrypted individually; an agent
// with neither path is unusable and the holder must install or connect a
// capable one. Spent records are filtered out. An empty result is a valid
// outcome, not an error.
func FetchStampRecords(ctx context.Context, a Agent, programID string, opts CallOptions) ([]Record, error) {
	caps := a.Capabilities()

	switch {
	case caps.Has(CapabilityRecordPlaintexts):
		records, err := Call(ctx, "fetch record plaintexts", opts, func(ctx context.Context) ([]Record, error) {
			return a.RequestRecordPlaintexts(ctx, programID)
		})
		if err != nil {
			return nil, err
		}
		return filterUnspent(records), nil

	case caps.Has(CapabilityRecords) && caps.Has(CapabilityDecrypt):
		encrypted, err := Call(ctx, "fetch records", opts, func(ctx context.Context) ([]EncryptedRecord, error) {
			return a.RequestRecords(ctx, programID)
		})
		if err != nil {
			return nil, err
		}
		// Each goroutine writes to its own slot, avoiding data races; undecodable
		// records stay zero-valued and are dropped by the spent/zero filter.
		decrypted := make([]Record, len(encrypted))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(decryptConcurrency)
		for i, enc := range encrypted {
			i, enc := i, enc
			g.Go(func() error {
				plaintext, err := Call(gctx, "decrypt record", opts, func(ctx context.Context) (string, error) {
					return a.Decrypt(ctx, enc.Ciphertext)
				})
				if err != nil {
					return err
				}
				rec, err := ParseRecord(plaintext)
				if err != nil {
					return nil
				}
				if rec.Owner == "" {
					rec.Owner = enc.Owner
				}
				decrypted[i] = rec
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		records := make([]Record, 0, len(decrypted))
		for _, rec := range decrypted {
			if rec != (Record{}) {
				records = append(records, rec)
			}
		}
		return filterUnspent(records), nil

	default:
		return nil, dErrors.New(dErrors.CodeAgentUnavailable,
			"wallet agent cannot read records; install or connect a capable agent")
	}
}

func filterUnspent(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if !r.Spent {
			out = append(out, r)
		}
	}
	return out
}
