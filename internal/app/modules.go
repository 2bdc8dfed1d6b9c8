package app

import (
	"github.com/dvoss/devrig/internal/registry"
	"github.com/dvoss/devrig/modules/compose_run"
	"github.com/dvoss/devrig/modules/compose_stack"
	"github.com/dvoss/devrig/modules/image_build"
	"github.com/dvoss/devrig/modules/print"
	"github.com/dvoss/devrig/modules/script"
)

// coreModules is the definitive list of runner modules compiled into the
// devrig binary.
var coreModules = []registry.Module{
	&compose_run.Module{},
	&compose_stack.Module{},
	&image_build.Module{},
	&print.Module{},
	&script.Module{},
}
