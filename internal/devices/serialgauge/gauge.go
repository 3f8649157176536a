// Package serialgauge reads irradiance gauges that emit newline-delimited
// JSON packets over a serial port or a TCP socket, and pushes the readings
// into the live-feed parameters bound to the device.
package serialgauge

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/powersim/solarparam/internal/log"
	"github.com/powersim/solarparam/pkg/config"
	"github.com/powersim/solarparam/pkg/params"
	serial "github.com/tarm/goserial"
	"go.uber.org/zap"
)

// Gauge is one connected irradiance gauge. Packets are flat JSON objects
// mapping field names (dni, dhi, ghi, whatever the instrument reports) to
// readings; each field with a bound live-feed parameter updates that feed.
type Gauge struct {
	ctx          context.Context
	wg           *sync.WaitGroup
	netConn      net.Conn
	rwc          io.ReadWriteCloser
	config       config.DeviceData
	feeds        map[string]*params.LiveFeed
	logger       *zap.SugaredLogger
	connecting   bool
	connectingMu sync.RWMutex
	connected    bool
	connectedMu  sync.RWMutex
}

// New creates a gauge for one configured device, binding the live-feed
// parameters whose device name matches. Feeds are keyed by packet field.
func New(ctx context.Context, wg *sync.WaitGroup, cfg config.DeviceData, feeds []*params.LiveFeed, logger *zap.SugaredLogger) (*Gauge, error) {
	if cfg.SerialDevice == "" && (cfg.Hostname == "" || cfg.Port == "") {
		return nil, fmt.Errorf("gauge [%s] must define either a serial device or hostname+port", cfg.Name)
	}

	// 9600 baud is the common default for irradiance loggers on USB.
	if cfg.Baud == 0 {
		cfg.Baud = 9600
	}

	g := &Gauge{
		ctx:    ctx,
		wg:     wg,
		config: cfg,
		feeds:  make(map[string]*params.LiveFeed),
		logger: logger,
	}
	for _, feed := range feeds {
		if feed.Device() == cfg.Name {
			g.feeds[feed.Field()] = feed
		}
	}
	return g, nil
}

// Name returns the configured device name.
func (g *Gauge) Name() string {
	return g.config.Name
}

// Start connects to the gauge and launches the packet reader goroutine.
func (g *Gauge) Start() error {
	log.Infof("starting irradiance gauge [%v]...", g.config.Name)
	g.Connect()

	g.wg.Add(1)
	go g.getPackets()

	return nil
}

// getPackets runs the packet parser, reconnecting if the stream breaks.
func (g *Gauge) getPackets() {
	defer g.wg.Done()
	for {
		select {
		case <-g.ctx.Done():
			log.Info("cancellation request received. Cancelling packet reader.")
			return
		default:
			err := g.parsePackets()
			if err != nil {
				g.logger.Error(err)
				g.rwc.Close()
				if len(g.config.Hostname) > 0 {
					g.netConn.Close()
				}
				g.logger.Info("attempting to reconnect...")
				g.Connect()
			} else {
				return
			}
		}
	}
}

// parsePackets decodes JSON lines from the gauge and pushes each known field
// into its bound live-feed parameter.
func (g *Gauge) parsePackets() error {
	scanner := bufio.NewScanner(g.rwc)

	for scanner.Scan() {
		if g.netConn != nil {
			g.netConn.SetReadDeadline(time.Now().Add(time.Second * 30))
		}
		select {
		case <-g.ctx.Done():
			log.Info("cancellation request received. Cancelling packet reader.")
			return nil
		default:
			var packet map[string]float64
			if err := json.Unmarshal(scanner.Bytes(), &packet); err != nil {
				return fmt.Errorf("error unmarshalling JSON: %v", err)
			}

			for field, value := range packet {
				feed, ok := g.feeds[field]
				if !ok {
					continue
				}
				log.Debugf("gauge [%s] field %s = %v -> parameter %s", g.config.Name, field, value, feed.Name())
				feed.Set(value)
			}
		}
	}

	return fmt.Errorf("scanning aborted due to error or EOF")
}

// Connect connects to the gauge over serial or network
func (g *Gauge) Connect() {
	if len(g.config.SerialDevice) > 0 {
		g.connectToSerialGauge()
	} else {
		g.connectToNetworkGauge()
	}
}

func (g *Gauge) connectToSerialGauge() {
	var err error

	g.connectingMu.RLock()
	if g.connecting {
		g.connectingMu.RUnlock()
		g.logger.Info("skipping reconnect since a connection attempt is already in progress")
		return
	}
	g.connectingMu.RUnlock()
	g.connectingMu.Lock()
	g.connecting = true
	g.connectingMu.Unlock()

	g.logger.Infof("connecting to %v ...", g.config.SerialDevice)

	for {
		sc := &serial.Config{Name: g.config.SerialDevice, Baud: g.config.Baud}
		g.rwc, err = serial.OpenPort(sc)

		if err != nil {
			g.logger.Errorf("failed to open serial port %s: %v", g.config.SerialDevice, err)
			g.logger.Error("sleeping 30 seconds and trying again")

			select {
			case <-g.ctx.Done():
				g.logger.Info("cancellation request received during retry wait")
				g.connectingMu.Lock()
				g.connecting = false
				g.connectingMu.Unlock()
				return
			case <-time.After(30 * time.Second):
			}
		} else {
			g.connectedMu.Lock()
			defer g.connectedMu.Unlock()
			g.connected = true
			g.connectingMu.Lock()
			defer g.connectingMu.Unlock()
			g.connecting = false

			return
		}
	}
}

func (g *Gauge) connectToNetworkGauge() {
	var err error

	console := fmt.Sprint(g.config.Hostname, ":", g.config.Port)

	g.connectingMu.RLock()
	if g.connecting {
		g.connectingMu.RUnlock()
		log.Info("skipping reconnect since a connection attempt is already in progress")
		return
	}
	g.connectingMu.RUnlock()
	g.connectingMu.Lock()
	g.connecting = true
	g.connectingMu.Unlock()

	log.Info("connecting to:", console)

	for {
		g.netConn, err = net.DialTimeout("tcp", console, 10*time.Second)

		if err != nil {
			log.Errorf("could not connect to %v: %v", console, err)
			log.Error("sleeping 5 seconds and trying again.")

			select {
			case <-g.ctx.Done():
				g.logger.Info("cancellation request received during retry wait")
				g.connectingMu.Lock()
				g.connecting = false
				g.connectingMu.Unlock()
				return
			case <-time.After(5 * time.Second):
			}
		} else {
			g.netConn.SetReadDeadline(time.Now().Add(time.Second * 30))

			g.connectedMu.Lock()
			defer g.connectedMu.Unlock()
			g.connected = true
			g.connectingMu.Lock()
			defer g.connectingMu.Unlock()
			g.connecting = false

			g.rwc = io.ReadWriteCloser(g.netConn)
			return
		}
	}
}
