package app

import (
	"github.com/specialistvlad/jobhost/internal/registry"
	"github.com/specialistvlad/jobhost/modules/env_vars"
	"github.com/specialistvlad/jobhost/modules/http_request"
	"github.com/specialistvlad/jobhost/modules/print"
	"github.com/specialistvlad/jobhost/modules/s3"
	"github.com/specialistvlad/jobhost/modules/socketio"
)

// coreModules is the definitive list of all job modules that are compiled
// into the jobhost binary.
var coreModules = []registry.Module{
	&env_vars.Module{},
	&print.Module{},
	&http_request.Module{},
	&s3.Module{},
	&socketio.Module{},
}
