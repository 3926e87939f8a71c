package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lockstep-io/lockstep"
	"github.com/lockstep-io/lockstep/errors"
	"github.com/lockstep-io/lockstep/x/vault"
)

// msgTx wraps a single message as a transaction. The CLI is a local
// surface, there is nothing else to carry.
type msgTx struct {
	msg lockstep.Msg
}

var _ lockstep.Tx = msgTx{}

func (tx msgTx) GetMsg() (lockstep.Msg, error) {
	return tx.msg, nil
}

func (tx msgTx) Marshal() ([]byte, error) {
	return tx.msg.Marshal()
}

func (tx msgTx) Unmarshal([]byte) error {
	return errors.Wrap(errors.ErrHuman, "cli transactions are never decoded")
}

func createWalletCmd() *cobra.Command {
	var (
		id        string
		owners    []string
		threshold int32
	)
	cmd := &cobra.Command{
		Use:   "create-wallet",
		Short: "Create a wallet with a fixed owner set and threshold",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := newEnv(true)
			if err != nil {
				return err
			}
			defer e.close()

			addrs, err := parseAddresses(owners)
			if err != nil {
				return err
			}
			res, err := e.app.Deliver(cmd.Context(), msgTx{msg: &vault.CreateWalletMsg{
				ID:        []byte(id),
				Owners:    addrs,
				Threshold: threshold,
			}})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%X\n", res.Data)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "wallet identifier, unique per creator")
	cmd.Flags().StringArrayVar(&owners, "owner", nil, "owner address in hex, repeatable")
	cmd.Flags().Int32Var(&threshold, "threshold", 1, "approvals required for execution")
	return cmd
}

func proposeCmd() *cobra.Command {
	var (
		wallet   string
		nonce    int64
		target   string
		data     string
		accounts []string
	)
	cmd := &cobra.Command{
		Use:   "propose",
		Short: "Propose a transaction on a wallet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := newEnv(true)
			if err != nil {
				return err
			}
			defer e.close()

			walletKey, err := parseKey(wallet)
			if err != nil {
				return err
			}
			targetAddr, err := parseAddress(target)
			if err != nil {
				return errors.Wrap(err, "target")
			}
			payload, err := hex.DecodeString(data)
			if err != nil {
				return errors.Wrap(errors.ErrInput, "malformed payload hex")
			}
			metas := make([]vault.AccountMeta, 0, len(accounts))
			for _, raw := range accounts {
				acct, err := parseAccount(raw)
				if err != nil {
					return err
				}
				metas = append(metas, acct)
			}

			res, err := e.app.Deliver(cmd.Context(), msgTx{msg: &vault.CreateTransactionMsg{
				Wallet:   walletKey,
				Nonce:    nonce,
				Target:   targetAddr,
				Accounts: metas,
				Data:     payload,
			}})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%X\n", res.Data)
			return nil
		},
	}
	cmd.Flags().StringVar(&wallet, "wallet", "", "wallet key in hex")
	cmd.Flags().Int64Var(&nonce, "nonce", 0, "unique nonce for this proposal")
	cmd.Flags().StringVar(&target, "target", "", "target address in hex")
	cmd.Flags().StringVar(&data, "data", "", "instruction payload in hex")
	cmd.Flags().StringArrayVar(&accounts, "account", nil, "instruction account HEXADDR[:signer][:writable], repeatable")
	return cmd
}

func approveCmd() *cobra.Command {
	var (
		wallet string
		nonce  int64
	)
	cmd := &cobra.Command{
		Use:   "approve",
		Short: "Approve a pending proposal as the signer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := newEnv(true)
			if err != nil {
				return err
			}
			defer e.close()

			walletKey, err := parseKey(wallet)
			if err != nil {
				return err
			}
			res, err := e.app.Deliver(cmd.Context(), msgTx{msg: &vault.ApproveTransactionMsg{
				Wallet: walletKey,
				Nonce:  nonce,
			}})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "approvals: %s\n", res.Data)
			return nil
		},
	}
	cmd.Flags().StringVar(&wallet, "wallet", "", "wallet key in hex")
	cmd.Flags().Int64Var(&nonce, "nonce", 0, "nonce of the proposal")
	return cmd
}

func executeCmd() *cobra.Command {
	var (
		wallet string
		nonce  int64
		aux    []string
	)
	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Dispatch a proposal that reached its threshold",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := newEnv(true)
			if err != nil {
				return err
			}
			defer e.close()

			walletKey, err := parseKey(wallet)
			if err != nil {
				return err
			}
			auxAddrs, err := parseAddresses(aux)
			if err != nil {
				return err
			}
			if _, err := e.app.Deliver(cmd.Context(), msgTx{msg: &vault.ExecuteTransactionMsg{
				Wallet:    walletKey,
				Nonce:     nonce,
				Auxiliary: auxAddrs,
			}}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "executed")
			return nil
		},
	}
	cmd.Flags().StringVar(&wallet, "wallet", "", "wallet key in hex")
	cmd.Flags().Int64Var(&nonce, "nonce", 0, "nonce of the proposal")
	cmd.Flags().StringArrayVar(&aux, "aux", nil, "auxiliary address in hex, forwarded to the executor")
	return cmd
}

func showCmd() *cobra.Command {
	var (
		wallet string
		nonce  int64
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a wallet, or one of its proposals as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := newEnv(false)
			if err != nil {
				return err
			}
			defer e.close()

			walletKey, err := parseKey(wallet)
			if err != nil {
				return err
			}

			var record interface{}
			if cmd.Flags().Changed("nonce") {
				record, err = vault.NewProposalBucket().GetProposal(e.db, walletKey, nonce)
			} else {
				record, err = vault.NewWalletBucket().GetWallet(e.db, walletKey)
			}
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(record, "", "  ")
			if err != nil {
				return errors.Wrap(err, "encode record")
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&wallet, "wallet", "", "wallet key in hex")
	cmd.Flags().Int64Var(&nonce, "nonce", 0, "nonce of the proposal to show")
	return cmd
}

