// One reporter run: config -> snapshot -> rendered report

package lssr

import (
	"context"
	"io"

	"github.com/emypar/linux-sockstat-reporter/procfs"
)

var engineLog = NewCompLogger("engine")

func Run(ctx context.Context, cfg *LssrConfig, w io.Writer) error {
	if cfg == nil {
		cfg = DefaultLssrConfig()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	snapCfg, err := cfg.SockstatConfig.SnapshotConfig()
	if err != nil {
		return err
	}
	snap, err := procfs.NewAssembler(snapCfg, engineLog).Snapshot(ctx)
	if err != nil {
		return err
	}
	return RenderSnapshot(w, snap, cfg.OutputConfig)
}
