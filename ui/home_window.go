package ui

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/amigos-terceira-idade/desktop/internal/logger"
	"github.com/amigos-terceira-idade/desktop/internal/types"
	"github.com/amigos-terceira-idade/desktop/services"
)

// HomeWindowUI is the main window shown while a session exists: profile,
// agenda, suggestions and connections. All data flows through the
// backend service; an expired session surfaces here only as the window
// being swapped back to login by the session state subscription.
type HomeWindowUI struct {
	App fyne.App
	Win fyne.Window

	backend *services.BackendService
	manager *services.SessionManager

	profileName  *widget.Label
	profileEmail *widget.Label
	profileType  *widget.Label
	profileBio   *widget.Label

	appointments []types.Appointment
	apptList     *widget.List
	apptSelected int

	suggestions  []types.UserSuggestion
	suggList     *widget.List
	suggSelected int

	connections  []types.Connection
	connList     *widget.List
	connSelected int
	invLabel     *widget.Label
}

// NewHomeWindow creates the main window and kicks off the initial data
// loads.
func NewHomeWindow(a fyne.App, backend *services.BackendService, manager *services.SessionManager) *HomeWindowUI {
	ui := &HomeWindowUI{
		App:          a,
		backend:      backend,
		manager:      manager,
		apptSelected: -1,
		suggSelected: -1,
		connSelected: -1,
	}
	ui.Win = a.NewWindow("Amigos da Terceira Idade")
	ui.Win.Resize(fyne.NewSize(520, 600))
	ui.Win.CenterOnScreen()

	tabs := container.NewAppTabs(
		container.NewTabItemWithIcon("Perfil", theme.AccountIcon(), ui.buildProfileTab()),
		container.NewTabItemWithIcon("Agenda", theme.HistoryIcon(), ui.buildAgendaTab()),
		container.NewTabItemWithIcon("Sugestões", theme.SearchIcon(), ui.buildSuggestionsTab()),
		container.NewTabItemWithIcon("Conexões", theme.ConfirmIcon(), ui.buildConnectionsTab()),
	)

	logoutButton := widget.NewButtonWithIcon("Sair", theme.LogoutIcon(), func() {
		ui.manager.Logout()
	})

	ui.Win.SetContent(container.NewBorder(nil, logoutButton, nil, nil, tabs))

	ui.loadProfile()
	ui.loadAppointments()
	ui.loadSuggestions()
	ui.loadConnections()

	return ui
}

func (ui *HomeWindowUI) buildProfileTab() fyne.CanvasObject {
	ui.profileName = widget.NewLabel("Carregando...")
	ui.profileName.TextStyle = fyne.TextStyle{Bold: true}
	ui.profileEmail = widget.NewLabel("")
	ui.profileType = widget.NewLabel("")
	ui.profileBio = widget.NewLabel("")
	ui.profileBio.Wrapping = fyne.TextWrapWord

	refreshButton := widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), ui.loadProfile)

	card := widget.NewCard("Meu Perfil", "", container.NewVBox(
		ui.profileName,
		ui.profileEmail,
		ui.profileType,
		ui.profileBio,
	))
	return container.NewVBox(container.NewBorder(nil, nil, nil, refreshButton), card)
}

func (ui *HomeWindowUI) loadProfile() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		profile, err := ui.backend.Me(ctx)
		fyne.Do(func() {
			if err != nil {
				log := logger.Get()
				log.Warn().Err(err).Msg("failed to load profile")
				ui.profileName.SetText("Não foi possível carregar o perfil.")
				return
			}
			ui.profileName.SetText(profile.Name)
			ui.profileEmail.SetText(profile.Email)
			ui.profileType.SetText(profile.UserType)
			ui.profileBio.SetText(profile.Bio)
		})
	}()
}

func (ui *HomeWindowUI) buildAgendaTab() fyne.CanvasObject {
	ui.apptList = widget.NewList(
		func() int { return len(ui.appointments) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			appt := ui.appointments[i]
			o.(*widget.Label).SetText(fmt.Sprintf("%s — %s (%s)", appt.Title, appt.Date, appt.Status))
		},
	)
	ui.apptList.OnSelected = func(i widget.ListItemID) { ui.apptSelected = i }
	ui.apptList.OnUnselected = func(widget.ListItemID) { ui.apptSelected = -1 }

	refreshButton := widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), ui.loadAppointments)
	acceptButton := widget.NewButton("Aceitar", func() {
		ui.appointmentAction("aceitar", ui.backend.AcceptAppointment)
	})
	declineButton := widget.NewButton("Recusar", func() {
		ui.appointmentAction("recusar", ui.backend.DeclineAppointment)
	})
	cancelButton := widget.NewButton("Cancelar", func() {
		ui.appointmentAction("cancelar", ui.backend.CancelAppointment)
	})

	buttons := container.NewGridWithColumns(3, acceptButton, declineButton, cancelButton)
	header := container.NewBorder(nil, nil, widget.NewLabel("Próximos encontros"), refreshButton)
	return container.NewBorder(header, buttons, nil, nil, ui.apptList)
}

func (ui *HomeWindowUI) loadAppointments() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		appts, err := ui.backend.UpcomingAppointments(ctx)
		fyne.Do(func() {
			if err != nil {
				log := logger.Get()
				log.Warn().Err(err).Msg("failed to load appointments")
				return
			}
			ui.appointments = appts
			ui.apptSelected = -1
			ui.apptList.UnselectAll()
			ui.apptList.Refresh()
		})
	}()
}

// appointmentAction runs one of accept/decline/cancel on the selected
// appointment and reloads the agenda.
func (ui *HomeWindowUI) appointmentAction(name string, action func(context.Context, int) error) {
	if ui.apptSelected < 0 || ui.apptSelected >= len(ui.appointments) {
		dialog.ShowInformation("Agenda", "Selecione um encontro primeiro.", ui.Win)
		return
	}
	id := ui.appointments[ui.apptSelected].ID

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		err := action(ctx, id)
		fyne.Do(func() {
			if err != nil {
				dialog.ShowError(fmt.Errorf("não foi possível %s o encontro: %w", name, err), ui.Win)
				return
			}
			ui.loadAppointments()
		})
	}()
}

func (ui *HomeWindowUI) buildSuggestionsTab() fyne.CanvasObject {
	ui.suggList = widget.NewList(
		func() int { return len(ui.suggestions) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			s := ui.suggestions[i]
			text := s.Name
			for j, interest := range s.Interests {
				if j == 0 {
					text += " · "
				} else {
					text += ", "
				}
				text += interest.Name
			}
			o.(*widget.Label).SetText(text)
		},
	)
	ui.suggList.OnSelected = func(i widget.ListItemID) { ui.suggSelected = i }
	ui.suggList.OnUnselected = func(widget.ListItemID) { ui.suggSelected = -1 }

	refreshButton := widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), ui.loadSuggestions)
	connectButton := widget.NewButton("Conectar", ui.connectToSelected)

	header := container.NewBorder(nil, nil, widget.NewLabel("Sugestões de companhia"), refreshButton)
	return container.NewBorder(header, connectButton, nil, nil, ui.suggList)
}

func (ui *HomeWindowUI) loadSuggestions() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		suggestions, err := ui.backend.Suggestions(ctx)
		fyne.Do(func() {
			if err != nil {
				log := logger.Get()
				log.Warn().Err(err).Msg("failed to load suggestions")
				return
			}
			ui.suggestions = suggestions
			ui.suggSelected = -1
			ui.suggList.UnselectAll()
			ui.suggList.Refresh()
		})
	}()
}

func (ui *HomeWindowUI) buildConnectionsTab() fyne.CanvasObject {
	ui.connList = widget.NewList(
		func() int { return len(ui.connections) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			conn := ui.connections[i]
			o.(*widget.Label).SetText(fmt.Sprintf("Usuário %d — %s", conn.UserID, conn.Status))
		},
	)
	ui.connList.OnSelected = func(i widget.ListItemID) { ui.connSelected = i }
	ui.connList.OnUnselected = func(widget.ListItemID) { ui.connSelected = -1 }

	ui.invLabel = widget.NewLabel("")

	refreshButton := widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), ui.loadConnections)
	acceptButton := widget.NewButton("Aceitar", func() {
		ui.connectionAction("aceitar", ui.backend.AcceptConnection)
	})
	rejectButton := widget.NewButton("Recusar", func() {
		ui.connectionAction("recusar", ui.backend.RejectConnection)
	})

	header := container.NewBorder(nil, nil, widget.NewLabel("Minhas conexões"), refreshButton)
	footer := container.NewVBox(container.NewGridWithColumns(2, acceptButton, rejectButton), ui.invLabel)
	return container.NewBorder(header, footer, nil, nil, ui.connList)
}

func (ui *HomeWindowUI) loadConnections() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		conns, err := ui.backend.Connections(ctx)
		invitations, invErr := ui.backend.ReceivedInvitations(ctx)
		fyne.Do(func() {
			if err != nil {
				log := logger.Get()
				log.Warn().Err(err).Msg("failed to load connections")
				return
			}
			ui.connections = conns
			ui.connSelected = -1
			ui.connList.UnselectAll()
			ui.connList.Refresh()

			if invErr == nil {
				ui.invLabel.SetText(fmt.Sprintf("Convites recebidos: %d", len(invitations)))
			}
		})
	}()
}

func (ui *HomeWindowUI) connectionAction(name string, action func(context.Context, int) error) {
	if ui.connSelected < 0 || ui.connSelected >= len(ui.connections) {
		dialog.ShowInformation("Conexões", "Selecione uma conexão primeiro.", ui.Win)
		return
	}
	id := ui.connections[ui.connSelected].ID

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		err := action(ctx, id)
		fyne.Do(func() {
			if err != nil {
				dialog.ShowError(fmt.Errorf("não foi possível %s a conexão: %w", name, err), ui.Win)
				return
			}
			ui.loadConnections()
		})
	}()
}

func (ui *HomeWindowUI) connectToSelected() {
	if ui.suggSelected < 0 || ui.suggSelected >= len(ui.suggestions) {
		dialog.ShowInformation("Sugestões", "Selecione uma sugestão primeiro.", ui.Win)
		return
	}
	userID := ui.suggestions[ui.suggSelected].ID

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		_, err := ui.backend.CreateConnection(ctx, userID)
		fyne.Do(func() {
			if err != nil {
				dialog.ShowError(fmt.Errorf("não foi possível criar a conexão: %w", err), ui.Win)
				return
			}
			dialog.ShowInformation("Sugestões", "Pedido de conexão enviado!", ui.Win)
			ui.loadSuggestions()
		})
	}()
}
