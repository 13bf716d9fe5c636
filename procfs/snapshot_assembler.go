// Snapshot assembler: primary + auxiliary sources -> snapshot

package procfs

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/emypar/linux-sockstat-reporter/datamodels"
	"github.com/emypar/linux-sockstat-reporter/internal/utils"
	"github.com/sirupsen/logrus"
)

const (
	PROCFS_ROOT_DEFAULT = "/proc"
)

// The configuration is passed explicitly to the assembler and it is not
// modified afterwards; concurrent assemblers may share it.
type SnapshotConfig struct {
	// Primary source, mandatory:
	SockstatPath string
	// Whether to load the auxiliary sources or not:
	Extended bool
	// Size ceiling for every source, use 0 for no limit:
	MaxFileSize int64
	// Auxiliary sources, optional; an empty path disables the loader:
	Sockstat6Path string
	NetlinkPath   string
	PacketPath    string
	SnmpPath      string
	Snmp6Path     string
	NetstatPath   string
	// Hostname for metadata; if empty it will be determined from the OS:
	Hostname string
}

func SockstatPath(procfsRoot string) string {
	return path.Join(procfsRoot, "net", "sockstat")
}

func DefaultSnapshotConfig(procfsRoot string) *SnapshotConfig {
	if procfsRoot == "" {
		procfsRoot = PROCFS_ROOT_DEFAULT
	}
	return &SnapshotConfig{
		SockstatPath:  SockstatPath(procfsRoot),
		MaxFileSize:   SOURCE_FILE_MAX_SIZE_DEFAULT,
		Sockstat6Path: path.Join(procfsRoot, "net", "sockstat6"),
		NetlinkPath:   path.Join(procfsRoot, "net", "netlink"),
		PacketPath:    path.Join(procfsRoot, "net", "packet"),
		SnmpPath:      path.Join(procfsRoot, "net", "snmp"),
		Snmp6Path:     path.Join(procfsRoot, "net", "snmp6"),
		NetstatPath:   path.Join(procfsRoot, "net", "netstat"),
	}
}

type auxLoadFunc func(ctx context.Context, filePath string, snap *datamodels.Snapshot, maxSize int64, log logrus.FieldLogger) error

type auxLoader struct {
	name     string
	filePath string
	load     auxLoadFunc
	// Whether the loader checks its source(s) itself:
	selfCheck bool
}

type Assembler struct {
	cfg SnapshotConfig
	log logrus.FieldLogger
	// Overridable for testing:
	timeNowFn       func() time.Time
	kernelReleaseFn func() string
	pageSizeFn      func() int64
}

func NewAssembler(cfg *SnapshotConfig, log logrus.FieldLogger) *Assembler {
	if cfg == nil {
		cfg = DefaultSnapshotConfig("")
	}
	if log == nil {
		log = logrus.New()
	}
	return &Assembler{
		cfg:             *cfg,
		log:             log,
		timeNowFn:       time.Now,
		kernelReleaseFn: utils.KernelRelease,
		pageSizeFn:      utils.PageSize,
	}
}

func (a *Assembler) auxLoaders() []*auxLoader {
	cfg := &a.cfg
	return []*auxLoader{
		{"sockstat6", cfg.Sockstat6Path, ParseSockstat6, false},
		{"netlink", cfg.NetlinkPath, loadNetlink, false},
		{"packet", cfg.PacketPath, loadPacket, false},
		{
			"snmp",
			cfg.SnmpPath,
			func(ctx context.Context, filePath string, snap *datamodels.Snapshot, maxSize int64, log logrus.FieldLogger) error {
				return loadNetSnmpIcmp(ctx, filePath, cfg.Snmp6Path, snap, maxSize, log)
			},
			true,
		},
		{"netstat", cfg.NetstatPath, loadNetstatTcpExt, false},
	}
}

func (a *Assembler) newSnapshot() *datamodels.Snapshot {
	cfg := &a.cfg
	snap := datamodels.NewSnapshot(cfg.Extended)
	hostname := cfg.Hostname
	if hostname == "" {
		hostname = utils.Hostname(false)
	}
	snap.Metadata.Source = cfg.SockstatPath
	snap.Metadata.GeneratedAt = a.timeNowFn().UTC().Format(time.RFC3339)
	snap.Metadata.Hostname = hostname
	snap.Metadata.KernelRelease = a.kernelReleaseFn()
	snap.Metadata.PageSize = a.pageSizeFn()
	return snap
}

// Build the snapshot. Only primary source errors are returned, auxiliary
// sources are best effort. If the context is cancelled the partial snapshot is
// returned, w/o error.
func (a *Assembler) Snapshot(ctx context.Context) (*datamodels.Snapshot, error) {
	cfg, log := &a.cfg, a.log
	start := time.Now()

	snap := a.newSnapshot()

	if err := CheckSourceFile(cfg.SockstatPath, cfg.MaxFileSize); err != nil {
		return nil, err
	}
	numLines, err := ParseSockstat(ctx, cfg.SockstatPath, snap, cfg.Extended, cfg.MaxFileSize, log)
	if err != nil {
		return nil, fmt.Errorf("primary source: %w", err)
	}
	log.Debugf("%s: %d line(s) processed", cfg.SockstatPath, numLines)

	if cfg.Extended {
		for _, loader := range a.auxLoaders() {
			if ctx.Err() != nil {
				break
			}
			if loader.filePath == "" {
				log.Debugf("%s: no source, skipped", loader.name)
				continue
			}
			if !loader.selfCheck {
				if err := CheckSourceFile(loader.filePath, cfg.MaxFileSize); err != nil {
					log.Debugf("%s: skipped: %v", loader.name, err)
					continue
				}
			}
			// A failed loader leaves its buckets at their default:
			if err := loader.load(ctx, loader.filePath, snap, cfg.MaxFileSize, log); err != nil {
				log.Debugf("%s: %v", loader.name, err)
			}
		}
	}

	if ctx.Err() != nil {
		log.Warnf("cancelled, the snapshot may be incomplete")
	}
	log.Infof("snapshot built in %.04f sec", time.Since(start).Seconds())
	return snap, nil
}
