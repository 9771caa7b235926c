package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"

	"chat-core/contract"
	"chat-core/domain"
	"chat-core/history"
	"chat-core/internal"
	"chat-core/moderation"
	"chat-core/notify"
	"chat-core/registry"
	"chat-core/transport"
)

// Exit codes to provide meaningful status to the operating system or service manager.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "chat terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components and centralizes error reporting, so defers
// execute before the process exits.
func run() (int, error) {
	// 1. Configuration & logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	replacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Moderation
	words, err := moderation.Words()
	if err != nil {
		return exitConfig, fmt.Errorf("loading censored words: %w", err)
	}
	moderator, err := moderation.NewModerator(words, replacement, logger)
	if err != nil {
		return exitConfig, err
	}
	logger.Info(fmt.Sprintf("%d censored words loaded", len(words)))

	// 3. Transports
	console := transport.NewConsole(os.Stdout, config.Colours, logger)
	if err := console.Connect(); err != nil {
		return exitRuntime, err
	}
	defer func() { _ = console.Disconnect() }()
	transports := []contract.Transport{console}

	if config.WebsocketEnable {
		ws := transport.NewWebsocket(config.WebsocketURL, logger)
		if err := ws.Connect(); err != nil {
			logger.Warn("Websocket transport unavailable", "error", err)
		} else {
			defer func() { _ = ws.Disconnect() }()
			transports = append(transports, ws)
		}
	}

	// 4. Core services
	historyService := history.NewService(logger, config.HistoryLimit)
	notifications := notify.NewService(logger)

	observers := []domain.Observer{notifications}
	for _, t := range transports {
		observers = append(observers, notify.NewTransportObserver(t, logger))
	}

	rooms := registry.NewRoomRegistry(logger, historyService, moderator.Mask, observers...)
	users := registry.NewUserRegistry(logger)

	for _, t := range transports {
		if err := t.SystemMessage("chat-core is up"); err != nil {
			logger.Warn("System message not delivered", "error", err)
		}
	}

	// 5. Demo traffic
	if err := demo(rooms, users); err != nil {
		return exitRuntime, err
	}

	printRooms(rooms.Rooms())
	printHistory(historyService.Recent("lobby", 10))
	logger.Info("Notification totals",
		"messages", notifications.Messages(), "activities", notifications.Activities())
	return exitOK, nil
}

func demo(rooms *registry.RoomRegistry, users *registry.UserRegistry) error {
	alice, err := users.GetOrCreate("Alice")
	if err != nil {
		return err
	}
	bob, err := users.GetOrCreate("Bob")
	if err != nil {
		return err
	}

	lobby, err := rooms.CreateRoom("lobby", alice)
	if err != nil {
		return err
	}
	if err := lobby.Join(bob, nil); err != nil {
		return err
	}

	welcome, err := domain.NewMessage(alice, "Welcome to the lobby!")
	if err != nil {
		return err
	}
	if err := lobby.Broadcast(welcome); err != nil {
		return err
	}

	reply, err := domain.NewPrivateMessage(bob, "thanks for the invite", alice)
	if err != nil {
		return err
	}
	return lobby.SendPrivate(reply)
}

func printRooms(rooms []*domain.Room) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Room", "Users", "Admin", "Created"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetTablePadding("\t")
	for _, r := range rooms {
		table.Append([]string{
			r.ID,
			strconv.Itoa(r.UserCount()),
			r.Admin.Username,
			r.CreatedAt.Format(time.RFC822),
		})
	}
	table.Render()
}

func printHistory(messages []domain.Message) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"At", "From", "To", "Content"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetTablePadding("\t")
	for _, m := range messages {
		to := "all"
		if m.IsPrivate() {
			to = m.RecipientID
		}
		table.Append([]string{m.CreatedAt.Format("15:04:05"), m.SenderID, to, m.Content})
	}
	table.Render()
}
