package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"kelly-ai-client/internal/bootstrap"
	"kelly-ai-client/internal/dto"
	"kelly-ai-client/internal/entity"
	"kelly-ai-client/internal/service"

	"github.com/fatih/color"
)

var (
	userColor  = color.New(color.FgCyan, color.Bold)
	aiColor    = color.New(color.FgMagenta)
	infoColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed)
	dimColor   = color.New(color.Faint)
)

const helpText = `Commands:
  /signup            create an account
  /login             sign in
  /logout            sign out
  /new               start a new chat
  /list              list chats
  /switch <n>        open chat number n
  /delete <n>        delete chat number n
  /report <text>     report an issue
  /help              show this help
  /quit              exit
Anything else is sent to Kelly.`

type repl struct {
	c   *bootstrap.Container
	in  *bufio.Scanner
	out io.Writer
}

func newREPL(c *bootstrap.Container, in io.Reader, out io.Writer) *repl {
	return &repl{c: c, in: bufio.NewScanner(in), out: out}
}

func (r *repl) Run(ctx context.Context) {
	infoColor.Fprintln(r.out, "Kelly AI - type /help for commands")
	r.showSession(ctx)
	r.showCurrent()

	for {
		userColor.Fprint(r.out, "> ")
		line, ok := r.readLine()
		if !ok {
			return
		}
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "/") {
			r.send(ctx, line)
			continue
		}

		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)
		switch cmd {
		case "/quit", "/exit":
			return
		case "/help":
			fmt.Fprintln(r.out, helpText)
			r.showSuggestions()
		case "/signup":
			r.authenticate(ctx, true)
		case "/login":
			r.authenticate(ctx, false)
		case "/logout":
			r.c.AuthService.Logout(ctx)
			infoColor.Fprintln(r.out, "Logged out.")
		case "/new":
			r.newChat(ctx)
		case "/list":
			r.list()
		case "/switch":
			r.switchTo(ctx, arg)
		case "/delete":
			r.delete(ctx, arg)
		case "/report":
			r.report(ctx, arg)
		default:
			errorColor.Fprintf(r.out, "Unknown command %s\n", cmd)
		}
	}
}

func (r *repl) readLine() (string, bool) {
	if !r.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(r.in.Text()), true
}

func (r *repl) prompt(label string) (string, bool) {
	fmt.Fprint(r.out, label)
	return r.readLine()
}

func (r *repl) send(ctx context.Context, text string) {
	dimColor.Fprintln(r.out, "Kelly is typing...")
	res, err := r.c.ChatService.SendMessage(ctx, text)
	if err != nil {
		r.printError(err)
		return
	}
	aiColor.Fprintf(r.out, "Kelly: %s\n", res.Reply.Text)
}

func (r *repl) authenticate(ctx context.Context, signup bool) {
	email, ok := r.prompt("Email: ")
	if !ok {
		return
	}
	password, ok := r.prompt("Password: ")
	if !ok {
		return
	}

	req := &dto.AuthRequest{Email: email, Password: password}
	var (
		res *dto.AuthResponse
		err error
	)
	if signup {
		res, err = r.c.AuthService.Signup(ctx, req)
	} else {
		res, err = r.c.AuthService.Login(ctx, req)
	}
	if err != nil {
		r.printError(err)
		return
	}
	if res.Message != "" {
		infoColor.Fprintln(r.out, res.Message)
	}
	infoColor.Fprintf(r.out, "Signed in as %s\n", res.UserEmail)
}

func (r *repl) newChat(ctx context.Context) {
	conv, err := r.c.ConversationService.Create(ctx)
	if err != nil {
		r.printError(err)
		return
	}
	infoColor.Fprintf(r.out, "Started %q\n", conv.Title)
	r.showSuggestions()
}

func (r *repl) list() {
	list := r.c.ConversationService.List()
	if len(list) == 0 {
		dimColor.Fprintln(r.out, "No chats yet.")
		return
	}
	currentId := r.c.ConversationService.CurrentId()
	for i, conv := range list {
		marker := " "
		if conv.Id == currentId {
			marker = "*"
		}
		fmt.Fprintf(r.out, "%s %d. %s (%d messages)\n", marker, i+1, conv.Title, len(conv.Messages))
	}
}

// pick resolves a 1-based list position to a conversation id.
func (r *repl) pick(arg string) (string, bool) {
	n, err := strconv.Atoi(arg)
	list := r.c.ConversationService.List()
	if err != nil || n < 1 || n > len(list) {
		errorColor.Fprintln(r.out, "Pick a chat number from /list")
		return "", false
	}
	return list[n-1].Id, true
}

func (r *repl) switchTo(ctx context.Context, arg string) {
	id, ok := r.pick(arg)
	if !ok {
		return
	}
	if err := r.c.ConversationService.Select(ctx, id); err != nil {
		r.printError(err)
		return
	}
	r.showCurrent()
}

func (r *repl) delete(ctx context.Context, arg string) {
	id, ok := r.pick(arg)
	if !ok {
		return
	}
	answer, ok := r.prompt("Are you sure you want to delete this chat? [y/N] ")
	if !ok || !strings.EqualFold(answer, "y") {
		return
	}
	if err := r.c.ConversationService.Delete(ctx, id); err != nil {
		r.printError(err)
		return
	}
	infoColor.Fprintln(r.out, "Chat deleted.")
}

func (r *repl) report(ctx context.Context, text string) {
	if _, err := r.c.ReportService.Submit(ctx, &dto.SubmitReportRequest{Text: text}); err != nil {
		r.printError(err)
		return
	}
	infoColor.Fprintln(r.out, "Thank you for reporting the issue. Our team will review it shortly.")
}

func (r *repl) showSession(ctx context.Context) {
	status, err := r.c.AuthService.CheckExistingAuth(ctx)
	if err != nil || !status.Authenticated {
		dimColor.Fprintln(r.out, "Not signed in. Use /login or /signup.")
		return
	}
	if status.Expired {
		infoColor.Fprintf(r.out, "Session for %s has expired. Use /login.\n", status.UserEmail)
		return
	}
	infoColor.Fprintf(r.out, "Signed in as %s\n", status.UserEmail)
}

func (r *repl) showCurrent() {
	conv := r.c.ConversationService.Current()
	if conv == nil {
		r.showSuggestions()
		return
	}
	infoColor.Fprintf(r.out, "-- %s --\n", conv.Title)
	for _, msg := range conv.Messages {
		if msg.Sender == entity.SenderUser {
			userColor.Fprintf(r.out, "You: %s\n", msg.Text)
		} else {
			aiColor.Fprintf(r.out, "Kelly: %s\n", msg.Text)
		}
	}
}

func (r *repl) showSuggestions() {
	dimColor.Fprintln(r.out, "Try asking:")
	for _, s := range r.c.ChatService.Suggestions() {
		dimColor.Fprintf(r.out, "  - %s\n", s)
	}
}

func (r *repl) printError(err error) {
	var authErr *service.AuthError
	if errors.As(err, &authErr) {
		errorColor.Fprintf(r.out, "%s: %s\n", authErr.Title, authErr.Message)
		return
	}
	errorColor.Fprintln(r.out, err.Error())
}
