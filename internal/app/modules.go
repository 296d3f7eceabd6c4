package app

import (
	"github.com/vk/flightdrop/internal/registry"
	"github.com/vk/flightdrop/modules/core"
	"github.com/vk/flightdrop/modules/crashlytics"
	"github.com/vk/flightdrop/modules/deviceinfo"
	"github.com/vk/flightdrop/modules/fbsdk"
	"github.com/vk/flightdrop/modules/firebase"
	"github.com/vk/flightdrop/modules/firebaseanalytics"
	"github.com/vk/flightdrop/modules/lineargradient"
	"github.com/vk/flightdrop/modules/onesignal"
	"github.com/vk/flightdrop/modules/prompt"
	"github.com/vk/flightdrop/modules/remoteconfig"
	"github.com/vk/flightdrop/modules/sendintent"
	"github.com/vk/flightdrop/modules/socialshare"
	"github.com/vk/flightdrop/modules/vectoricons"
)

// coreModules is the definitive, ordered list of the feature modules compiled
// into the flightdrop binary. Modules are constructed in exactly this order.
var coreModules = []registry.Entry{
	{Name: deviceinfo.Name, New: deviceinfo.New},
	{Name: core.Name, New: core.New},
	{Name: prompt.Name, New: prompt.New},
	{Name: fbsdk.Name, New: fbsdk.New},
	{Name: socialshare.Name, New: socialshare.New},
	{Name: sendintent.Name, New: sendintent.New},
	{Name: firebase.Name, New: firebase.New},
	{Name: firebaseanalytics.Name, New: firebaseanalytics.New},
	{Name: remoteconfig.Name, New: remoteconfig.New},
	{Name: crashlytics.Name, New: crashlytics.New},
	{Name: onesignal.Name, New: onesignal.New},
	{Name: vectoricons.Name, New: vectoricons.New},
	{Name: lineargradient.Name, New: lineargradient.New},
}

// CoreModules returns a copy of the compiled-in module list.
func CoreModules() []registry.Entry {
	return append([]registry.Entry(nil), coreModules...)
}
