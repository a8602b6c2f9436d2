//go:build tinygo && esp8266

// Build with: tinygo build -target targets/esp8266/eboot.json ./targets/esp8266
package main

import (
	"gopper-eboot/core"
	"gopper-eboot/eboot"
)

func main() {
	layout := core.DefaultLayout()
	installHAL(layout)
	eboot.NewFromCore(layout).Run()
	for {
	}
}
