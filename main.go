// micguard keeps the microphone input volume pinned to a target level while
// a voice/video call is in progress. Call presence is inferred purely from
// input signal energy: short windows are sampled, classified by RMS against
// a threshold, and a call is declared when enough windows in a pass are
// active. Call software that yanks the input gain gets corrected within one
// active-interval tick.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"micguard/audio"
	"micguard/log"
	"micguard/shutdown"
	"micguard/volume"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cfg := defaultConfig()

	targetFlag := flag.Int("target-volume", cfg.TargetVolume, "Target microphone input volume (0-100)")
	activeFlag := flag.Int("active-interval", int(cfg.ActiveInterval/time.Second), "Seconds between volume checks during a call")
	idleFlag := flag.Int("idle-interval", int(cfg.IdleInterval/time.Second), "Seconds between detection passes while idle")
	callFlag := flag.Int("call-interval", int(cfg.CallInterval/time.Second), "Seconds between full call re-detections during a call")
	logPathFlag := flag.String("log-path", cfg.LogPath, "Log file path")
	configFlag := flag.String("config", "", "Config file path (default ~/.micguard/config.toml)")
	saveConfigFlag := flag.Bool("save-config", false, "Write the effective settings to the config file and exit")
	setupFlag := flag.Bool("setup", false, "Select microphone device interactively (otherwise system default)")
	deviceFlag := flag.String("device", "", "Monitor the named microphone device")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("micguard %s\n", version)
		return 0
	}

	cfgPath := *configFlag
	if cfgPath == "" {
		if p, err := defaultConfigPath(); err == nil {
			cfgPath = p
		}
	}
	if err := loadStartupConfig(cfgPath, *configFlag != "", *saveConfigFlag, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	overrides := flagOverrides{
		set:          map[string]bool{},
		targetVolume: *targetFlag,
		activeSecs:   *activeFlag,
		idleSecs:     *idleFlag,
		callSecs:     *callFlag,
		logPath:      *logPathFlag,
	}
	flag.Visit(func(f *flag.Flag) { overrides.set[f.Name] = true })
	overrides.apply(&cfg)

	if err := cfg.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		return 1
	}

	if *saveConfigFlag {
		if err := saveConfigFile(cfgPath, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: saving config: %v\n", err)
			return 1
		}
		fmt.Printf("Configuration saved to %s\n", cfgPath)
		return 0
	}

	if err := log.Init(cfg.LogPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not open log %s: %v\n", cfg.LogPath, err)
		return 1
	}
	defer log.Close()

	audioCtx, err := audio.NewContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing audio context: %v\n", err)
		return 1
	}
	defer audioCtx.Close()

	var selectedDevice *audio.DeviceInfo
	if *deviceFlag != "" {
		if devices, err := audioCtx.Devices(); err == nil {
			for i := range devices {
				if devices[i].Name == *deviceFlag {
					selectedDevice = &devices[i]
					break
				}
			}
		}
		if selectedDevice == nil {
			fmt.Fprintf(os.Stderr, "Warning: device %q not found, using system default\n", *deviceFlag)
		}
	} else if *setupFlag {
		selectedDevice, err = audio.SelectDevice(audioCtx)
		if err != nil {
			log.Warnf("device selection failed: %v", err)
			fmt.Fprintf(os.Stderr, "Warning: device selection failed: %v\n", err)
			fmt.Fprintln(os.Stderr, "Falling back to default device")
			selectedDevice = nil
		}
	}

	sampler := audio.NewSampler(audioCtx, selectedDevice, audio.CaptureConfig{
		SampleRate: audio.DefaultSampleRate,
		Channels:   1,
	})
	defer sampler.Close()

	vc, err := volume.NewController()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	deviceName := "system default"
	if selectedDevice != nil {
		deviceName = selectedDevice.Name
	}
	log.SessionStart(cfg.TargetVolume, cfg.ActiveInterval, cfg.IdleInterval, cfg.CallInterval, deviceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sig := <-shutdown.Listen()
		log.Infof("received %v, shutting down", sig)
		cancel()
	}()

	monitor := NewMonitor(&cfg, sampler, vc, logSink{})
	if err := monitor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Errorf("monitor stopped: %v", err)
		return 1
	}
	log.Info("monitor stopped")
	return 0
}
