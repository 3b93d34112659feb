package handlers

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"warden/bot"
	"warden/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// HandleSystemInfo shows host and bot diagnostics.
func HandleSystemInfo(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	if _, ok := authorize(s, i, b, "system-info", ""); !ok {
		return
	}

	cpuCount, _ := cpu.Counts(true)
	cpuPercent, _ := cpu.Percent(0, false)
	vm, _ := mem.VirtualMemory()
	hostInfo, _ := host.Info()

	cpuUsage := 0.0
	if len(cpuPercent) > 0 {
		cpuUsage = cpuPercent[0]
	}

	var dbSize int64
	if stat, err := os.Stat(b.GetConfig().DatabasePath); err == nil {
		dbSize = stat.Size() / 1024
	}

	uptime := time.Duration(0)
	if hostInfo != nil {
		uptime = time.Duration(hostInfo.Uptime) * time.Second
	}

	embed := &discordgo.MessageEmbed{
		Title: "System Info",
		Color: 3447003,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "OS", Value: fmt.Sprintf("%s / %s", runtime.GOOS, runtime.GOARCH), Inline: true},
			{Name: "CPU", Value: fmt.Sprintf("%d cores, %.1f%%", cpuCount, cpuUsage), Inline: true},
			{Name: "Memory", Value: fmt.Sprintf("%.1f%% of %d MB", vmUsedPercent(vm), vmTotalMB(vm)), Inline: true},
			{Name: "Host uptime", Value: uptime.String(), Inline: true},
			{Name: "Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
			{Name: "Ledger size", Value: fmt.Sprintf("%d KB", dbSize), Inline: true},
		},
	}
	utils.SendFollowUpEmbed(s, i.Interaction, embed)
}

func vmUsedPercent(vm *mem.VirtualMemoryStat) float64 {
	if vm == nil {
		return 0
	}
	return vm.UsedPercent
}

func vmTotalMB(vm *mem.VirtualMemoryStat) uint64 {
	if vm == nil {
		return 0
	}
	return vm.Total / 1024 / 1024
}
