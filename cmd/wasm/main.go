//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/artdeck/artdeck-go/internal/document"
	"github.com/artdeck/artdeck-go/internal/engine"
	"github.com/artdeck/artdeck-go/internal/geometry"
	"github.com/artdeck/artdeck-go/internal/protocol"
	"github.com/artdeck/artdeck-go/internal/store"
)

var eng *engine.Engine

func main() {
	eng = newEngine(0)

	// Create the engine API object
	artdeckEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	artdeckEngine.Set("init", js.FuncOf(initRoom))
	artdeckEngine.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	artdeckEngine.Set("setTool", js.FuncOf(setTool))
	artdeckEngine.Set("pointerDown", js.FuncOf(pointerDown))
	artdeckEngine.Set("pointerMove", js.FuncOf(pointerMove))
	artdeckEngine.Set("pointerUp", js.FuncOf(pointerUp))
	artdeckEngine.Set("zoom", js.FuncOf(zoom))
	artdeckEngine.Set("commitText", js.FuncOf(commitText))
	artdeckEngine.Set("deleteShape", js.FuncOf(deleteShape))
	artdeckEngine.Set("clear", js.FuncOf(clearDocument))
	artdeckEngine.Set("undo", js.FuncOf(undo))
	artdeckEngine.Set("redo", js.FuncOf(redo))
	artdeckEngine.Set("receive", js.FuncOf(receive))
	artdeckEngine.Set("hydrate", js.FuncOf(hydrate))

	// --- Queries (frontend ← engine) ---
	artdeckEngine.Set("render", js.FuncOf(render))
	artdeckEngine.Set("getShapes", js.FuncOf(getShapes))
	artdeckEngine.Set("getViewport", js.FuncOf(getViewport))
	artdeckEngine.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	artdeckEngine.Set("getHistoryState", js.FuncOf(getHistoryState))

	// Register on global scope
	js.Global().Set("artdeckEngine", artdeckEngine)

	// Signal that WASM is ready
	js.Global().Set("artdeckWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// newEngine wires outbound events to the page's onOutbound(json) hook, which
// owns the socket.
func newEngine(roomID int64) *engine.Engine {
	return engine.New(engine.Options{
		RoomID: roomID,
		Outbound: func(env protocol.Envelope) {
			hook := js.Global().Get("onOutbound")
			if hook.Type() != js.TypeFunction {
				return
			}
			data, err := env.Encode()
			if err != nil {
				return
			}
			hook.Invoke(string(data))
		},
	})
}

func ok() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func fail(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": msg})
}

func point(args []js.Value, i int) (geometry.Point, bool) {
	if len(args) < i+2 {
		return geometry.Point{}, false
	}
	return geometry.Point{X: args[i].Float(), Y: args[i+1].Float()}, true
}

// --- Command Handlers ---

func initRoom(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail("missing room id")
	}
	eng = newEngine(int64(args[0].Int()))
	return ok()
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	eng.Load(document.NewSampleDocument().All())
	return ok()
}

func setTool(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail("missing tool")
	}
	tool, err := engine.ParseTool(args[0].String())
	if err != nil {
		return fail(err.Error())
	}
	eng.SetTool(tool)
	return ok()
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	if p, valid := point(args, 0); valid {
		eng.PointerDown(p)
	}
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if p, valid := point(args, 0); valid {
		eng.PointerMove(p)
	}
	return nil
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	if p, valid := point(args, 0); valid {
		eng.PointerUp(p)
	}
	return nil
}

func zoom(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return nil
	}
	p, _ := point(args, 1)
	eng.Zoom(args[0].Float(), p)
	return nil
}

func commitText(this js.Value, args []js.Value) interface{} {
	p, valid := point(args, 0)
	if !valid || len(args) < 3 {
		return fail("expected x, y, content")
	}
	return js.ValueOf(eng.CommitText(p, args[2].String()))
}

func deleteShape(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail("missing shape id")
	}
	if err := eng.DeleteShape(args[0].String()); err != nil {
		return fail(err.Error())
	}
	return ok()
}

func clearDocument(this js.Value, args []js.Value) interface{} {
	eng.Clear()
	return nil
}

func undo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Undo())
}

func redo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Redo())
}

// receive applies one frame from the socket.
func receive(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail("missing frame")
	}
	if err := eng.HandleInbound([]byte(args[0].String())); err != nil {
		return fail(err.Error())
	}
	return ok()
}

// hydrate loads the history endpoint's response body.
func hydrate(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail("missing history JSON")
	}
	var body struct {
		Messages []store.Entry `json:"messages"`
	}
	if err := json.Unmarshal([]byte(args[0].String()), &body); err != nil {
		return fail(err.Error())
	}
	return js.ValueOf(eng.Hydrate(body.Messages))
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	result, _ := engine.DrawCommandsToJSON(eng.DrawCommands())
	return js.ValueOf(result)
}

func getShapes(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(eng.Shapes())
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(string(data))
}

func getViewport(this js.Value, args []js.Value) interface{} {
	data, _ := json.Marshal(eng.Viewport())
	return js.ValueOf(string(data))
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	data, _ := json.Marshal(eng.SelectionBounds())
	return js.ValueOf(string(data))
}

func getHistoryState(this js.Value, args []js.Value) interface{} {
	data, _ := json.Marshal(map[string]interface{}{
		"canUndo":   eng.CanUndo(),
		"canRedo":   eng.CanRedo(),
		"tool":      eng.Tool(),
		"selection": eng.Selection(),
	})
	return js.ValueOf(string(data))
}
