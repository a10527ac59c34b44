package main

// Component blank imports — each import activates a self-registering factory.
// Add new component kinds here as they are implemented.

import (
	_ "github.com/Strob0t/NetForge/internal/adapter/plugins/auditlog"
	_ "github.com/Strob0t/NetForge/internal/adapter/plugins/probe"
)
