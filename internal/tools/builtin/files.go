package builtin

import (
	"context"

	"aura/internal/osboundary"
	"aura/internal/tools"
)

func filesTools(b *osboundary.Boundary) []*tools.ToolSpec {
	return []*tools.ToolSpec{
		{
			Name:        "files.create_dir",
			Description: "Create a directory, including any missing parents",
			RiskLevel:   tools.RiskMedium,
			Requires:    []string{"os.filesystem"},
			HandlerID:   "files.create_dir",
			ArgSchema: map[string]tools.ArgProperty{
				"path": {Type: "string", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				path, err := argString(args, "path")
				if err != nil {
					return nil, err
				}
				return nil, b.CreateDir(withContext(ctx), path)
			},
		},
		{
			Name:        "files.create",
			Description: "Create a file with the given contents",
			RiskLevel:   tools.RiskMedium,
			Requires:    []string{"os.filesystem"},
			HandlerID:   "files.create",
			ArgSchema: map[string]tools.ArgProperty{
				"path":    {Type: "string", Required: true},
				"content": {Type: "string", Default: ""},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				path, err := argString(args, "path")
				if err != nil {
					return nil, err
				}
				content, _ := args["content"].(string)
				return nil, b.FileCreate(withContext(ctx), path, []byte(content))
			},
		},
		{
			Name:        "files.read",
			Description: "Read a file's contents",
			RiskLevel:   tools.RiskLow,
			Requires:    []string{"os.filesystem"},
			HandlerID:   "files.read",
			ArgSchema: map[string]tools.ArgProperty{
				"path": {Type: "string", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				path, err := argString(args, "path")
				if err != nil {
					return nil, err
				}
				data, err := b.FileRead(withContext(ctx), path)
				if err != nil {
					return nil, err
				}
				return string(data), nil
			},
		},
		{
			Name:        "files.write",
			Description: "Overwrite a file with new contents",
			RiskLevel:   tools.RiskMedium,
			Requires:    []string{"os.filesystem"},
			HandlerID:   "files.write",
			ArgSchema: map[string]tools.ArgProperty{
				"path":    {Type: "string", Required: true},
				"content": {Type: "string", Default: ""},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				path, err := argString(args, "path")
				if err != nil {
					return nil, err
				}
				content, _ := args["content"].(string)
				return nil, b.FileWrite(withContext(ctx), path, []byte(content))
			},
		},
		{
			Name:        "files.move",
			Description: "Move or rename a file",
			RiskLevel:   tools.RiskMedium,
			Requires:    []string{"os.filesystem"},
			HandlerID:   "files.move",
			ArgSchema: map[string]tools.ArgProperty{
				"src": {Type: "string", Required: true},
				"dst": {Type: "string", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				src, err := argString(args, "src")
				if err != nil {
					return nil, err
				}
				dst, err := argString(args, "dst")
				if err != nil {
					return nil, err
				}
				return nil, b.FileMove(withContext(ctx), src, dst)
			},
		},
		{
			Name:        "files.delete",
			Description: "Delete a file",
			RiskLevel:   tools.RiskConfirm,
			Requires:    []string{"os.filesystem"},
			HandlerID:   "files.delete",
			ArgSchema: map[string]tools.ArgProperty{
				"path": {Type: "string", Required: true},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				path, err := argString(args, "path")
				if err != nil {
					return nil, err
				}
				return nil, b.FileDelete(withContext(ctx), path)
			},
		},
	}
}
