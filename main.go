package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"vmemo/audio"
	"vmemo/beep"
	"vmemo/hotkey"
	"vmemo/log"
	"vmemo/session"
	"vmemo/shutdown"
	"vmemo/store"
	"vmemo/transcriber"
)

var version = "dev"

var (
	tuiProgram *tea.Program
	tuiMu      sync.Mutex

	notes *store.Store

	shutdownOnce sync.Once
)

func gracefulShutdown() {
	shutdownOnce.Do(func() {
		if notes != nil {
			if n := len(notes.Notes()); n > 0 {
				log.SessionEnd(n)
			}
		}
		log.Close()
		tuiMu.Lock()
		p := tuiProgram
		tuiMu.Unlock()
		if p != nil {
			p.Quit()
		}
		os.Exit(0)
	})
}

// recordTrigger tracks which surface started the active recording. The
// hybrid hotkey is installed after the TUI is already running, so both
// fields are read and written across goroutines.
type recordTrigger struct {
	hy       atomic.Pointer[hotkey.Hybrid]
	byHotkey atomic.Bool
}

// autoStop reports whether silence auto-stop applies to the active
// recording. A hold past the long-press threshold is push-to-talk,
// release stops it, so auto-stop stays out of the way. Taps and
// TUI-started recordings run until stopped and get auto-stop.
func (t *recordTrigger) autoStop() bool {
	if hy := t.hy.Load(); hy != nil && t.byHotkey.Load() {
		return hy.IsToggle()
	}
	return true
}

func tuiSend(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// initCrashLog routes runtime panics to a file next to the other logs, set
// up before any CGO audio code runs.
func initCrashLog() {
	dir, err := log.ResolveDir(os.Getenv("VMEMO_LOG_PATH"))
	if err != nil {
		return
	}
	log.SetDir(dir)
	if err := log.EnsureDir(); err != nil {
		return
	}
	crashPath := filepath.Join(dir, "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}
}

func run() {
	setupFlag := flag.Bool("setup", false, "Select microphone device (otherwise uses system default)")
	deviceFlag := flag.String("device", "", "Use named microphone device")
	langFlag := flag.String("lang", "en", "Language code for transcription (e.g., en, es, fr). Empty = auto-detect")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	hotkeyFlag := flag.String("hotkey", hotkey.DefaultCombo, "Global hotkey combination (e.g., ctrl+shift+space)")
	noHotkeyFlag := flag.Bool("nohotkey", false, "Disable the global hotkey (record with the TUI keys only)")
	longPressFlag := flag.Duration("longpress", 350*time.Millisecond, "Long-press threshold for hold-to-talk vs tap (e.g., 350ms)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	testFlag := flag.Bool("test", false, "Test mode (headless, stdin-driven, reads a WAV file)")
	flag.Parse()

	// Local overrides for API keys; missing file is fine.
	godotenv.Load()

	if *versionFlag {
		fmt.Printf("vmemo %s\n", version)
		os.Exit(0)
	}

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}

	combo, err := hotkey.ParseCombo(*hotkeyFlag)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if *doctorFlag {
		os.Exit(runDoctor())
	}

	tr, err := transcriber.New()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	log.SessionStart(tr.Name(), *langFlag)

	if *testFlag {
		args := flag.Args()
		if len(args) == 0 {
			fmt.Fprintln(os.Stderr, "Usage: vmemo -test <wav-file>")
			os.Exit(1)
		}
		runTestMode(args[0], tr, *langFlag)
		return
	}

	audioCtx, err := audio.NewContext()
	if err != nil {
		log.Errorf("audio context init error: %v", err)
		fmt.Printf("Error initializing audio context: %v\n", err)
		os.Exit(1)
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
			fmt.Printf("Warning: device %q not found, using system default\n", *deviceFlag)
		}
	} else if *setupFlag {
		selectedDevice, err = audio.SelectDevice(audioCtx)
		if err != nil {
			log.Warnf("device selection failed: %v", err)
			fmt.Printf("Warning: device selection failed: %v\n", err)
			fmt.Println("Falling back to default device")
			selectedDevice = nil
		}
	}

	notes = store.New()
	sink := newTUISink()

	trigger := &recordTrigger{}
	ctl := session.NewController(audioCtx, selectedDevice, tr, notes, sink, session.Config{
		Language: *langFlag,
		AutoStop: trigger.autoStop,
	})
	defer ctl.Close()

	tuiMu.Lock()
	tuiProgram = NewTUIProgram(ctl, notes, tr.Name(), *langFlag, selectedDevice, combo)
	tuiMu.Unlock()
	notes.SetChangeListener(func() { tuiSend(StoreChangedMsg{}) })

	go func() {
		if _, err := tuiProgram.Run(); err != nil {
			log.Errorf("TUI error: %v", err)
			os.Exit(1)
		}
		gracefulShutdown()
	}()

	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	go func() {
		<-sigChan
		gracefulShutdown()
	}()

	beep.Init()

	if *noHotkeyFlag {
		select {}
	}

	hk := hotkey.New(combo)
	if err := hk.Register(); err != nil {
		log.Errorf("hotkey register error: %v", err)
		tuiSend(ToastMsg{Text: fmt.Sprintf("global hotkey unavailable: %v", err), IsError: true})
		select {}
	}
	defer hk.Unregister()

	hy := hotkey.NewHybrid(hk, *longPressFlag)
	trigger.hy.Store(hy)
	for {
		select {
		case <-hy.Start():
			trigger.byHotkey.Store(true)
			if err := ctl.Start(); err != nil {
				log.Errorf("recording error: %v", err)
				sink.SessionError(session.StageAcquire, err)
			}
		case <-hy.StopChan():
			if done := ctl.Stop(); done != nil {
				<-done
			}
			trigger.byHotkey.Store(false)
		}
	}
}

func runDoctor() int {
	failed := false

	if msg, err := hotkey.Diagnose(); err != nil {
		fmt.Printf("hotkey:  FAIL  %v\n", err)
		failed = true
	} else {
		fmt.Printf("hotkey:  ok    %s\n", msg)
	}

	if os.Getenv("GROQ_API_KEY") == "" && os.Getenv("OPENAI_API_KEY") == "" {
		fmt.Println("api key: FAIL  neither GROQ_API_KEY nor OPENAI_API_KEY is set")
		failed = true
	} else {
		fmt.Println("api key: ok")
	}

	audioCtx, err := audio.NewContext()
	if err != nil {
		fmt.Printf("audio:   FAIL  %v\n", err)
		failed = true
	} else {
		defer audioCtx.Close()
		devices, err := audioCtx.Devices()
		if err != nil {
			fmt.Printf("audio:   FAIL  cannot enumerate devices: %v\n", err)
			failed = true
		} else {
			fmt.Printf("audio:   ok    %d capture device(s)\n", len(devices))
			for _, d := range devices {
				tag := ""
				if audio.IsBluetooth(d.Name) {
					tag = " (bluetooth)"
				}
				fmt.Printf("         - %s%s\n", d.Name, tag)
			}
		}
	}

	if failed {
		return 1
	}
	return 0
}
