// Fertility field preview tool - interactive visualization of the noise
// that decides where food spawns.
//
// Usage: go run ./cmd/fertility [-config path]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/beans/config"
	"github.com/pthm-cable/beans/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 256
)

// noiseParams mirrors the food noise keys of the config file.
type noiseParams struct {
	NoiseFrequency   float64 `yaml:"noise_frequency"`
	NoiseOctaves     int     `yaml:"noise_octaves"`
	NoisePersistence float64 `yaml:"noise_persistence"`
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 1, "Noise seed")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	defaults := noiseParams{
		NoiseFrequency:   cfg.Food.NoiseFrequency,
		NoiseOctaves:     cfg.Food.NoiseOctaves,
		NoisePersistence: cfg.Food.NoisePersistence,
	}
	params := defaults
	noiseSeed := *seed

	rl.InitWindow(windowWidth, windowHeight, "Fertility Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	var field *systems.FertilityField
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			field = systems.NewFertilityField(gridSize, gridSize, cfg.Derived.WorldW32, cfg.Derived.WorldH32, systems.FertilityParams{
				Frequency:   params.NoiseFrequency,
				Octaves:     params.NoiseOctaves,
				Persistence: params.NoisePersistence,
				Seed:        noiseSeed,
			})
			updateTexture(texture, field.Cap)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		minVal, maxVal, mean := fieldStats(field.Cap)
		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Min: %.3f  Max: %.3f  Mean: %.3f", minVal, maxVal, mean), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Spawn acceptance ~%.0f%%", mean*100), 15, statsY+20, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("World %.0f x %.0f", cfg.World.Width, cfg.World.Height), 15, statsY+40, 16, rl.DarkGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Fertility Noise", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rl.DrawText("Frequency (cycles per px, x1000)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newFreq := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.1", "10",
			float32(params.NoiseFrequency*1000), 0.1, 10,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.NoiseFrequency*1000), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if f := float64(newFreq) / 1000; f != params.NoiseFrequency {
			params.NoiseFrequency = f
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Octaves", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newOctaves := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1", "8",
			float32(params.NoiseOctaves), 1, 8,
		)
		rl.DrawText(fmt.Sprintf("%d", params.NoiseOctaves), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if o := int(newOctaves + 0.5); o != params.NoiseOctaves {
			params.NoiseOctaves = o
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Persistence (octave amplitude falloff)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newPersistence := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.1", "0.9",
			float32(params.NoisePersistence), 0.1, 0.9,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.NoisePersistence), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if p := float64(newPersistence); p != params.NoisePersistence {
			params.NoisePersistence = p
			needsRegen = true
		}
		panelY += 45

		rl.DrawText(fmt.Sprintf("Seed: %d", noiseSeed), int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			noiseSeed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaults
			noiseSeed = *seed
			needsRegen = true
		}
		panelY += 55

		text := yamlSnippet(params)
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range strings.Split(text, "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(text)
		}

		rl.EndDrawing()
	}
}

// yamlSnippet renders the parameters as a config overlay.
func yamlSnippet(p noiseParams) string {
	out, err := yaml.Marshal(map[string]noiseParams{"food": p})
	if err != nil {
		return err.Error()
	}
	return strings.TrimRight(string(out), "\n")
}

func fieldStats(values []float32) (minVal, maxVal, mean float32) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	minVal, maxVal = 1, 0
	var total float32
	for _, v := range values {
		total += v
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	return minVal, maxVal, total / float32(len(values))
}

func updateTexture(texture rl.Texture2D, values []float32) {
	pixels := make([]color.RGBA, len(values))
	for i, v := range values {
		v = min(max(v, 0), 1)
		pixels[i] = color.RGBA{R: uint8(40 * (1 - v)), G: uint8(40 + v*200), B: uint8(30 * (1 - v)), A: 255}
	}
	rl.UpdateTexture(texture, pixels)
}
