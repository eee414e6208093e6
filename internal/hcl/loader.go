package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/pargrid/internal/config"
	"github.com/specialistvlad/pargrid/internal/ctxlog"
	"github.com/specialistvlad/pargrid/internal/fsutil"
	"github.com/specialistvlad/pargrid/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL model loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

// Load reads every .hcl file reachable from paths and merges their root
// members and connections, in file order, into a single model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	root := &config.Group{}

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		members, conns, err := l.translateBody(ctx, hclFile.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, err)
		}
		root.Members = append(root.Members, members...)
		root.Connections = append(root.Connections, conns...)
		logger.Debug("Loaded HCL file.", "file", file, "members", len(members), "connections", len(conns))
	}

	logger.Debug("HCL loading complete.", "members", len(root.Members), "connections", len(root.Connections))
	return &config.Model{Root: root}, nil
}

// translateBody reads the member blocks of a file or group body in source
// order.
func (l *Loader) translateBody(ctx context.Context, body hcl.Body) ([]config.Member, []config.Connection, error) {
	content, diags := body.Content(schema.Members)
	if diags.HasErrors() {
		return nil, nil, diags
	}

	var members []config.Member
	var conns []config.Connection
	for _, block := range content.Blocks {
		switch block.Type {
		case "indep":
			m, err := l.translateIndep(ctx, block)
			if err != nil {
				return nil, nil, err
			}
			members = append(members, m)
		case "component":
			m, err := l.translateComponent(ctx, block)
			if err != nil {
				return nil, nil, err
			}
			members = append(members, m)
		case "group":
			m, err := l.translateGroup(ctx, block)
			if err != nil {
				return nil, nil, err
			}
			members = append(members, m)
		case "connect":
			c, err := l.translateConnect(block)
			if err != nil {
				return nil, nil, err
			}
			conns = append(conns, c)
		}
	}
	return members, conns, nil
}
