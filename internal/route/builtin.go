package route

// builtinEvents maps framework payload type names to the event they are
// raised by, relative to BuiltinPrefix.
var builtinEvents = map[string]string{
	"AssetRequestedArgs":                 "Content.AssetRequested",
	"AssetsInvalidatedArgs":              "Content.AssetsInvalidated",
	"AssetReadyArgs":                     "Content.AssetReady",
	"LocaleChangedArgs":                  "Content.LocaleChanged",
	"MenuChangedArgs":                    "Display.MenuChanged",
	"RenderingStepArgs":                  "Display.RenderingStep",
	"RenderedStepArgs":                   "Display.RenderedStep",
	"RenderingArgs":                      "Display.Rendering",
	"RenderedArgs":                       "Display.Rendered",
	"RenderingWorldArgs":                 "Display.RenderingWorld",
	"RenderedWorldArgs":                  "Display.RenderedWorld",
	"RenderingActiveMenuArgs":            "Display.RenderingActiveMenu",
	"RenderedActiveMenuArgs":             "Display.RenderedActiveMenu",
	"RenderingHudArgs":                   "Display.RenderingHud",
	"RenderedHudArgs":                    "Display.RenderedHud",
	"WindowResizedArgs":                  "Display.WindowResized",
	"GameLaunchedArgs":                   "GameLoop.GameLaunched",
	"UpdateTickingArgs":                  "GameLoop.UpdateTicking",
	"UpdateTickedArgs":                   "GameLoop.UpdateTicked",
	"OneSecondUpdateTickingArgs":         "GameLoop.OneSecondUpdateTicking",
	"OneSecondUpdateTickedArgs":          "GameLoop.OneSecondUpdateTicked",
	"SaveCreatingArgs":                   "GameLoop.SaveCreating",
	"SaveCreatedArgs":                    "GameLoop.SaveCreated",
	"SavingArgs":                         "GameLoop.Saving",
	"SavedArgs":                          "GameLoop.Saved",
	"SaveLoadedArgs":                     "GameLoop.SaveLoaded",
	"DayStartedArgs":                     "GameLoop.DayStarted",
	"DayEndingArgs":                      "GameLoop.DayEnding",
	"TimeChangedArgs":                    "GameLoop.TimeChanged",
	"ReturnedToTitleArgs":                "GameLoop.ReturnedToTitle",
	"ButtonsChangedArgs":                 "Input.ButtonsChanged",
	"ButtonPressedArgs":                  "Input.ButtonPressed",
	"ButtonReleasedArgs":                 "Input.ButtonReleased",
	"CursorMovedArgs":                    "Input.CursorMoved",
	"MouseWheelScrolledArgs":             "Input.MouseWheelScrolled",
	"PeerContextReceivedArgs":            "Multiplayer.PeerContextReceived",
	"PeerConnectedArgs":                  "Multiplayer.PeerConnected",
	"ModMessageReceivedArgs":             "Multiplayer.ModMessageReceived",
	"PeerDisconnectedArgs":               "Multiplayer.PeerDisconnected",
	"InventoryChangedArgs":               "Player.InventoryChanged",
	"LevelChangedArgs":                   "Player.LevelChanged",
	"WarpedArgs":                         "Player.Warped",
	"LoadStageChangedArgs":               "Specialized.LoadStageChanged",
	"UnvalidatedUpdateTickingArgs":       "Specialized.UnvalidatedUpdateTicking",
	"UnvalidatedUpdateTickedArgs":        "Specialized.UnvalidatedUpdateTicked",
	"LocationListChangedArgs":            "World.LocationListChanged",
	"BuildingListChangedArgs":            "World.BuildingListChanged",
	"DebrisListChangedArgs":              "World.DebrisListChanged",
	"LargeTerrainFeatureListChangedArgs": "World.LargeTerrainFeatureListChanged",
	"NpcListChangedArgs":                 "World.NpcListChanged",
	"ObjectListChangedArgs":              "World.ObjectListChanged",
	"ChestInventoryChangedArgs":          "World.ChestInventoryChanged",
	"TerrainFeatureListChangedArgs":      "World.TerrainFeatureListChanged",
	"FurnitureListChangedArgs":           "World.FurnitureListChanged",
}

// BuiltinPrefix is the expression framework events are reached through in
// generated code.
const BuiltinPrefix = "Helper.Events."

// Builtin returns the framework event raised with the named payload type.
func Builtin(payloadName string) (string, bool) {
	ev, ok := builtinEvents[payloadName]
	if !ok {
		return "", false
	}
	return BuiltinPrefix + ev, true
}

// BuiltinCount returns the number of framework events known to the resolver.
func BuiltinCount() int {
	return len(builtinEvents)
}
