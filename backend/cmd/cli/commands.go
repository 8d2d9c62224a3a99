package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"jackut/backend/internal/codec"
	"jackut/backend/internal/graph"
)

// sessionRun adapts an operation that acts on behalf of the --login user
func (c *cli) sessionRun(run func(cmd *cobra.Command, token string, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		token, err := c.session()
		if err != nil {
			return err
		}
		return run(cmd, token, args)
	}
}

func printList(cmd *cobra.Command, items []string, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), codec.FormatList(items))
	return nil
}

func printBool(cmd *cobra.Command, ok bool, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatBool(ok))
	return nil
}

func printText(cmd *cobra.Command, text string, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

func (c *cli) registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register [login] [password] [name]",
		Short: "Create an account",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.system.Register(args[0], args[1], args[2])
		},
	}
}

func (c *cli) attributeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attr",
		Short: "Read or edit profile attributes",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get [login] [key]",
			Short: "Print an attribute; the key \"name\" prints the display name",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				value, err := c.system.Attribute(args[0], args[1])
				return printText(cmd, value, err)
			},
		},
		&cobra.Command{
			Use:   "set [key] [value]",
			Short: "Set an attribute of the acting user",
			Args:  cobra.ExactArgs(2),
			RunE: c.sessionRun(func(cmd *cobra.Command, token string, args []string) error {
				return c.system.SetAttribute(token, args[0], args[1])
			}),
		},
	)
	return cmd
}

func (c *cli) friendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "friend",
		Short: "Friend requests and friendship queries",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add [login]",
			Short: "Request friendship, or accept a pending request from login",
			Args:  cobra.ExactArgs(1),
			RunE: c.sessionRun(func(cmd *cobra.Command, token string, args []string) error {
				outcome, err := c.system.RequestFriend(token, args[0])
				if err != nil {
					return err
				}
				if outcome == graph.FriendshipFormed {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is now your friend\n", args[0])
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "friend request sent to %s\n", args[0])
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "list [login]",
			Short: "List the friends of login",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				items, err := c.system.Friends(args[0])
				return printList(cmd, items, err)
			},
		},
		&cobra.Command{
			Use:   "check [login] [other]",
			Short: "Print whether the two users are friends",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				ok, err := c.system.AreFriends(args[0], args[1])
				return printBool(cmd, ok, err)
			},
		},
		&cobra.Command{
			Use:   "pending [login]",
			Short: "List friend requests waiting for login",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				items, err := c.system.PendingRequests(args[0])
				return printList(cmd, items, err)
			},
		},
		&cobra.Command{
			Use:   "sent [login]",
			Short: "List friend requests login sent that were not accepted yet",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				items, err := c.system.SentRequests(args[0])
				return printList(cmd, items, err)
			},
		},
	)
	return cmd
}

func (c *cli) noteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Direct notes",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "send [login] [body]",
			Short: "Send a note to login",
			Args:  cobra.ExactArgs(2),
			RunE: c.sessionRun(func(cmd *cobra.Command, token string, args []string) error {
				return c.system.SendNote(token, args[0], args[1])
			}),
		},
		&cobra.Command{
			Use:   "read",
			Short: "Print and discard the oldest note",
			Args:  cobra.NoArgs,
			RunE: c.sessionRun(func(cmd *cobra.Command, token string, args []string) error {
				body, err := c.system.ReadNote(token)
				return printText(cmd, body, err)
			}),
		},
	)
	return cmd
}

func (c *cli) communityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "community",
		Short: "Communities and their messages",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "create [name] [description]",
			Short: "Create a community owned by the acting user",
			Args:  cobra.ExactArgs(2),
			RunE: c.sessionRun(func(cmd *cobra.Command, token string, args []string) error {
				return c.system.CreateCommunity(token, args[0], args[1])
			}),
		},
		&cobra.Command{
			Use:   "join [name]",
			Short: "Join a community",
			Args:  cobra.ExactArgs(1),
			RunE: c.sessionRun(func(cmd *cobra.Command, token string, args []string) error {
				return c.system.JoinCommunity(token, args[0])
			}),
		},
		&cobra.Command{
			Use:   "broadcast [name] [body]",
			Short: "Send a message to every member",
			Args:  cobra.ExactArgs(2),
			RunE: c.sessionRun(func(cmd *cobra.Command, token string, args []string) error {
				return c.system.Broadcast(token, args[0], args[1])
			}),
		},
		&cobra.Command{
			Use:   "read",
			Short: "Print and discard the oldest community message",
			Args:  cobra.NoArgs,
			RunE: c.sessionRun(func(cmd *cobra.Command, token string, args []string) error {
				body, err := c.system.ReadBroadcast(token)
				return printText(cmd, body, err)
			}),
		},
		&cobra.Command{
			Use:   "show [name]",
			Short: "Print owner, description and members",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				owner, err := c.system.CommunityOwner(args[0])
				if err != nil {
					return err
				}
				description, _ := c.system.CommunityDescription(args[0])
				members, _ := c.system.CommunityMembers(args[0])
				fmt.Fprintf(cmd.OutOrStdout(), "owner: %s\ndescription: %s\nmembers: %s\n", owner, description, codec.FormatList(members))
				return nil
			},
		},
		&cobra.Command{
			Use:   "list [login]",
			Short: "List the communities login participates in",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				items, err := c.system.Communities(args[0])
				return printList(cmd, items, err)
			},
		},
	)
	return cmd
}

func (c *cli) idolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "idol",
		Short: "Idols and fans",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add [login]",
			Short: "Become a fan of login",
			Args:  cobra.ExactArgs(1),
			RunE: c.sessionRun(func(cmd *cobra.Command, token string, args []string) error {
				return c.system.AddIdol(token, args[0])
			}),
		},
		&cobra.Command{
			Use:   "list [login]",
			Short: "List the idols of login",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				items, err := c.system.Idols(args[0])
				return printList(cmd, items, err)
			},
		},
		&cobra.Command{
			Use:   "fans [login]",
			Short: "List the fans of login",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				items, err := c.system.Fans(args[0])
				return printList(cmd, items, err)
			},
		},
		&cobra.Command{
			Use:   "is-fan [login] [idol]",
			Short: "Print whether login is a fan of idol",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				ok, err := c.system.IsFan(args[0], args[1])
				return printBool(cmd, ok, err)
			},
		},
	)
	return cmd
}

func (c *cli) crushCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crush",
		Short: "Crushes of the acting user",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add [login]",
			Short: "Add a crush; a mutual crush notifies both users",
			Args:  cobra.ExactArgs(1),
			RunE: c.sessionRun(func(cmd *cobra.Command, token string, args []string) error {
				return c.system.AddCrush(token, args[0])
			}),
		},
		&cobra.Command{
			Use:   "list",
			Short: "List the crushes of the acting user",
			Args:  cobra.NoArgs,
			RunE: c.sessionRun(func(cmd *cobra.Command, token string, args []string) error {
				items, err := c.system.Crushes(token)
				return printList(cmd, items, err)
			}),
		},
		&cobra.Command{
			Use:   "check [login]",
			Short: "Print whether the acting user has a crush on login",
			Args:  cobra.ExactArgs(1),
			RunE: c.sessionRun(func(cmd *cobra.Command, token string, args []string) error {
				ok, err := c.system.IsCrush(token, args[0])
				return printBool(cmd, ok, err)
			}),
		},
	)
	return cmd
}

func (c *cli) enemyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enemy",
		Short: "Enemies",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add [login]",
			Short: "Declare login an enemy of the acting user",
			Args:  cobra.ExactArgs(1),
			RunE: c.sessionRun(func(cmd *cobra.Command, token string, args []string) error {
				return c.system.AddEnemy(token, args[0])
			}),
		},
		&cobra.Command{
			Use:   "list [login]",
			Short: "List the enemies of login",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				items, err := c.system.Enemies(args[0])
				return printList(cmd, items, err)
			},
		},
		&cobra.Command{
			Use:   "check [login] [other]",
			Short: "Print whether the two users are enemies",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				ok, err := c.system.IsEnemy(args[0], args[1])
				return printBool(cmd, ok, err)
			},
		},
	)
	return cmd
}

func (c *cli) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Delete the acting user and everything referencing it",
		Args:  cobra.NoArgs,
		RunE: c.sessionRun(func(cmd *cobra.Command, token string, args []string) error {
			stats, err := c.system.RemoveAccount(token)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s: %d edges, %d notes, communities %s\n",
				c.login, stats.Edges, stats.Notes, codec.FormatList(stats.Communities))
			return nil
		}),
	}
}

func (c *cli) resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Erase every account, community and message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.system.ResetAll(cmdContext(cmd)); err != nil {
				return fmt.Errorf("reset failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all data erased")
			return nil
		},
	}
}
