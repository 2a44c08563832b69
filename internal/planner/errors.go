package planner

import "aura/internal/errs"

func errUnknownTool(name string) error {
	return errs.New(errs.UnknownTool, "planner: plan references unknown tool "+name)
}
