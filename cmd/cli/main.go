package main

import (
	"bufio"
	"context"
	"errors"
	"filevault/internal/client"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"golang.org/x/term"
)

const usage = `usage: filevault [-server URL] [-session PATH] <command> [args]

commands:
  register            create an account and log in
  login               log in
  logout              end the session
  ls [-n LIMIT]       list files
  upload PATH...      upload files
  get ID [OUT]        download a file
  rm ID               delete a file
`

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("filevault", flag.ContinueOnError)
	fs.SetOutput(stdout)
	fs.Usage = func() { fmt.Fprint(stdout, usage) }

	defaultServer := os.Getenv("FILEVAULT_URL")
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}
	server := fs.String("server", defaultServer, "api base url")
	sessionPath := fs.String("session", "", "session file path")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("no command")
	}

	if *sessionPath == "" {
		p, err := client.DefaultSessionPath()
		if err != nil {
			return err
		}
		*sessionPath = p
	}

	c, err := client.New(*server)
	if err != nil {
		return err
	}

	session, err := client.LoadSession(*sessionPath)
	if err != nil {
		return err
	}
	c.Restore(session)

	cmd, cmdArgs := fs.Arg(0), fs.Args()[1:]
	in := bufio.NewReader(stdin)

	switch cmd {
	case "register":
		name, err := prompt(in, stdout, "Name: ")
		if err != nil {
			return err
		}
		email, err := prompt(in, stdout, "Email: ")
		if err != nil {
			return err
		}
		password, err := promptPassword(in, stdout)
		if err != nil {
			return err
		}
		user, err := c.Register(ctx, name, email, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "registered %s <%s>\n", user.Name, user.Email)
	case "login":
		email, err := prompt(in, stdout, "Email: ")
		if err != nil {
			return err
		}
		password, err := promptPassword(in, stdout)
		if err != nil {
			return err
		}
		user, err := c.Login(ctx, email, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "logged in as %s\n", user.Email)
	case "logout":
		if err := c.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "logged out")
		return client.RemoveSession(*sessionPath)
	case "ls":
		lsFlags := flag.NewFlagSet("ls", flag.ContinueOnError)
		lsFlags.SetOutput(stdout)
		limit := lsFlags.Int("n", 0, "max files to list")
		if err := lsFlags.Parse(cmdArgs); err != nil {
			return err
		}
		files, err := c.ListFiles(ctx, *limit)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tSIZE\tUPLOADED")
		for _, f := range files {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", f.ID, f.OriginalName, f.Size, f.CreatedAt.Local().Format(time.DateTime))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	case "upload":
		if len(cmdArgs) == 0 {
			return errors.New("upload: no paths given")
		}
		if err := upload(ctx, c, cmdArgs, stdout); err != nil {
			return err
		}
	case "get":
		if len(cmdArgs) == 0 {
			return errors.New("get: file id required")
		}
		if err := download(ctx, c, cmdArgs, stdout); err != nil {
			return err
		}
	case "rm":
		if len(cmdArgs) != 1 {
			return errors.New("rm: exactly one file id required")
		}
		if err := c.Delete(ctx, cmdArgs[0]); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "deleted", cmdArgs[0])
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}

	return client.SaveSession(*sessionPath, c.Session())
}

func upload(ctx context.Context, c *client.Client, paths []string, stdout io.Writer) error {
	files := make([]client.UploadFile, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		files = append(files, client.UploadFile{Name: filepath.Base(p), Content: f})
	}

	res, err := c.Upload(ctx, files)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			for _, d := range apiErr.Details {
				fmt.Fprintf(stdout, "failed %s: %s\n", paths[d.Index], d.Error)
			}
		}
		return err
	}

	for _, f := range res.Files {
		fmt.Fprintf(stdout, "uploaded %s as %s\n", f.OriginalName, f.ID)
	}
	for _, e := range res.Errors {
		if e.Index >= 0 && e.Index < len(paths) {
			fmt.Fprintf(stdout, "failed %s: %s\n", paths[e.Index], e.Error)
		}
	}
	fmt.Fprintln(stdout, res.Message)

	return nil
}

func download(ctx context.Context, c *client.Client, args []string, stdout io.Writer) error {
	tmp, err := os.CreateTemp(".", ".filevault-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	name, err := c.Download(ctx, args[0], tmp)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	out := filepath.Base(name)
	if len(args) > 1 {
		out = args[1]
	}

	if err := os.Rename(tmp.Name(), out); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "saved", out)

	return nil
}

func prompt(in *bufio.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprint(w, label)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads without echo from a terminal and falls back to a plain line otherwise.
func promptPassword(in *bufio.Reader, w io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(in, w, "Password: ")
	}

	fmt.Fprint(w, "Password: ")
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
