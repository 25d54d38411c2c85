package sftpclient

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

type Config struct {
	Host      string
	Port      int
	User      string
	Pass      string
	RemoteDir string
}

// DownloadFiles pulls the named files from cfg.RemoteDir into localDir,
// overwriting existing copies. All files share one connection.
func DownloadFiles(ctx context.Context, cfg Config, localDir string, files []string) error {
	if cfg.Host == "" || cfg.User == "" || cfg.Pass == "" {
		return fmt.Errorf("sftp: missing env CP_SFTP_HOST / CP_SFTP_USER / CP_SFTP_PASS")
	}
	if cfg.Port <= 0 {
		cfg.Port = 22
	}
	if cfg.RemoteDir == "" {
		cfg.RemoteDir = "/"
	}

	sshCfg := &ssh.ClientConfig{
		User: cfg.User,
		Auth: []ssh.AuthMethod{ssh.Password(cfg.Pass)},
		// TODO: switch to known_hosts verification once the district host key
		// is pinned.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         20 * time.Second,
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	type dialRes struct {
		client *ssh.Client
		err    error
	}
	ch := make(chan dialRes, 1)
	go func() {
		c, err := ssh.Dial("tcp", addr, sshCfg)
		ch <- dialRes{client: c, err: err}
	}()

	var sshClient *ssh.Client
	select {
	case <-ctx.Done():
		return fmt.Errorf("sftp: dial canceled: %w", ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return fmt.Errorf("sftp: dial error: %w", r.err)
		}
		sshClient = r.client
	}
	defer sshClient.Close()

	sftpCli, err := sftp.NewClient(sshClient)
	if err != nil {
		return fmt.Errorf("sftp: new client: %w", err)
	}
	defer sftpCli.Close()

	if err := os.MkdirAll(localDir, 0o755); err != nil {
		return fmt.Errorf("sftp: mkdir %s: %w", localDir, err)
	}

	for _, name := range files {
		if err := downloadOne(sftpCli, path.Join(cfg.RemoteDir, name), filepath.Join(localDir, name)); err != nil {
			return err
		}
	}
	return nil
}

func downloadOne(cli *sftp.Client, remotePath, localPath string) error {
	src, err := cli.Open(remotePath)
	if err != nil {
		return fmt.Errorf("sftp: open remote file %s: %w", remotePath, err)
	}
	defer src.Close()

	dst, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("sftp: create local file %s: %w", localPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("sftp: download copy %s: %w", remotePath, err)
	}
	return nil
}
