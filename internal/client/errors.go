package client

import "errors"

var errNoUIIsCreated = errors.New("no UI is created")
