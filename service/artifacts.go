package service

import (
	"context"
	"time"

	"github.com/kamiyo-ai/kamiyo-zk/circuits"
	"golang.org/x/sync/errgroup"
)

// DownloadArtifacts downloads the artifacts of every circuit kind
// concurrently.
func DownloadArtifacts(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	for _, kind := range circuits.Kinds() {
		g.Go(func() error {
			ca, err := kind.ArtifactSet()
			if err != nil {
				return err
			}
			return ca.DownloadAll(ctx)
		})
	}
	return g.Wait()
}
