package host

import (
	"fmt"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/sirupsen/logrus"

	"raydungeon/internal/threading/monitoring"
)

const (
	perfLowFpsThreshold = 30.0
	perfLowFpsDuration  = 3 * time.Second
	perfLogInterval     = 3 * time.Second
)

// perfWatch logs a snapshot when the frame rate stays low for a while.
type perfWatch struct {
	lowSince time.Time
	lastLog  time.Time
}

func (pw *perfWatch) observe(log logrus.FieldLogger, pm *monitoring.PerformanceMonitor, enabled bool) {
	if !enabled {
		return
	}
	fps := ebiten.ActualFPS()
	if fps >= perfLowFpsThreshold {
		pw.lowSince = time.Time{}
		pw.lastLog = time.Time{}
		return
	}
	now := time.Now()
	if pw.lowSince.IsZero() {
		pw.lowSince = now
		return
	}
	if now.Sub(pw.lowSince) < perfLowFpsDuration {
		return
	}
	if !pw.lastLog.IsZero() && now.Sub(pw.lastLog) < perfLogInterval {
		return
	}
	pw.lastLog = now

	fields := logrus.Fields{"fps": fps, "tps": ebiten.ActualTPS()}
	for k, v := range pm.GetDetailedStats() {
		fields[k] = v
	}
	alerts := make([]string, 0, 2)
	for _, a := range pm.CheckPerformanceAlerts() {
		alerts = append(alerts, a.Message)
	}
	if len(alerts) > 0 {
		fields["alerts"] = strings.Join(alerts, "; ")
	}
	log.WithFields(fields).Warn("Frame rate dropped")
}

func (a *App) drawPerf(screen *ebiten.Image) {
	m := a.opts.Threading.PerformanceMonitor.GetCurrentMetrics()
	lines := append([]string{fmt.Sprintf("TPS %.1f", ebiten.ActualTPS())}, m.Lines()...)
	fillRect(screen, 4, 4, 220, float64(16*len(lines)+8), hudPanel)
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, 10, 8+16*i)
	}
}
